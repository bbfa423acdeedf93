package at

import (
	"encoding/hex"
	"strings"
)

// parserState is the parser's top-level mode.
type parserState int

const (
	stateIdle parserState = iota
	stateAwaitingResponse
	stateReadingRaw
	stateReadingHex
)

// result is delivered to the current waiter (if any) when a response
// completes, whether with success or a diagnostic error line.
type result struct {
	text string
	err  error
}

// Parser is the byte-driven state machine that turns a raw modem byte
// stream into classified response lines. It is fed one byte at a time (by
// the single goroutine that owns it — see Channel) and is not itself safe
// for concurrent use; that single-writer discipline is a structural
// property of how Channel drives it, not something Parser enforces
// internally.
type Parser struct {
	state parserState

	asm  *lineAssembler
	resp *fixedBuffer

	rawRemaining int
	rawPayload   []byte
	hexHi        byte
	hexHaveHi    bool

	// armed per-command state, consumed on completion.
	scanner Scanner
	waiter  chan<- result

	// persistent until explicitly changed; see DESIGN.md Open Question 2.
	defaultScanner Scanner
	urcHandler     func(line []byte)
}

// NewParser creates an idle parser ready to have URC/default-scanner
// callbacks installed and commands armed against it.
func NewParser() *Parser {
	return &Parser{
		asm:  newLineAssembler(),
		resp: newFixedBuffer(defaultResponseCapacity),
	}
}

// SetDefaultScanner installs the channel-wide fallback scanner.
func (p *Parser) SetDefaultScanner(s Scanner) { p.defaultScanner = s }

// SetURCHandler installs the callback invoked, synchronously on the
// parser's owning goroutine, for every line classified as a URC.
func (p *Parser) SetURCHandler(h func(line []byte)) { p.urcHandler = h }

// SetCharHandler installs a persistent per-byte rewriter.
func (p *Parser) SetCharHandler(h CharHandler) { p.asm.charHandler = h }

// ClearCharHandler removes the persistent per-byte rewriter.
func (p *Parser) ClearCharHandler() { p.asm.charHandler = nil }

// Overflows returns the number of bytes silently head-dropped across the
// line and response buffers combined, for link-health observability.
func (p *Parser) Overflows() int {
	return p.asm.buf.overflows + p.resp.overflows
}

// Arm transitions the parser from Idle to AwaitingResponse for the next
// command: it clears the response buffer, installs the one-shot
// transient scanner and data-prompt prefix, and records where to deliver
// the completed result.
func (p *Parser) Arm(scanner Scanner, prompt string, waiter chan<- result) {
	// A re-arm while still reading a raw/hex payload discards the
	// in-progress payload: treated as a caller bug, not fatal.
	p.state = stateAwaitingResponse
	p.resp.reset()
	p.asm.buf.reset()
	p.scanner = scanner
	p.asm.setPrompt(prompt)
	p.waiter = waiter
	p.rawRemaining = 0
	p.rawPayload = nil
	p.hexHaveHi = false
}

// Reset returns the parser to Idle, clearing the line buffer, the
// per-command scanner/prompt and the character handler. The response
// buffer is left alone — a
// caller holding a string copy from a prior Command call is unaffected,
// since Channel never hands out a live pointer into resp (unlike the C
// original, Go strings returned by Command are independent copies).
func (p *Parser) Reset() {
	p.state = stateIdle
	p.asm.buf.reset()
	p.asm.clearPrompt()
	p.asm.charHandler = nil
	p.scanner = nil
	p.waiter = nil
	p.rawRemaining = 0
	p.rawPayload = nil
	p.hexHaveHi = false
}

// FeedByte processes one inbound byte. It never blocks: URC dispatch and
// response-completion delivery both happen inline, synchronously, on the
// calling (parser-owning) goroutine.
func (p *Parser) FeedByte(b byte) {
	switch p.state {
	case stateReadingRaw:
		p.feedRawByte(b)
		return
	case stateReadingHex:
		p.feedHexByte(b)
		return
	}

	completed, prompted := p.asm.feedByte(b)
	if prompted {
		p.asm.buf.reset()
		p.completeDataPrompt()
		return
	}
	if !completed {
		return
	}
	p.handleLine(p.asm.line())
}

// feedRawByte accumulates one byte of an armed raw payload. Once the
// armed count is consumed, the payload is emitted as a synthetic line and
// run back through classification exactly like any other line: a scanner
// watching for a payload that completes the response (e.g. an empty-ACK
// pattern) gets the chance to see it, rather than having the payload
// silently appended to the response buffer.
func (p *Parser) feedRawByte(b byte) {
	p.rawPayload = append(p.rawPayload, b)
	p.rawRemaining--
	if p.rawRemaining == 0 {
		p.completeRawPayload()
	}
}

func (p *Parser) feedHexByte(b byte) {
	nibble, ok := hexNibble(b)
	if !ok {
		// Non-hex byte inside a hex payload: ignore rather than abort the
		// command over a single malformed byte.
		return
	}
	if !p.hexHaveHi {
		p.hexHi = nibble
		p.hexHaveHi = true
		return
	}
	p.rawPayload = append(p.rawPayload, p.hexHi<<4|nibble)
	p.hexHaveHi = false
	p.rawRemaining--
	if p.rawRemaining == 0 {
		p.completeRawPayload()
	}
}

// completeRawPayload hands the accumulated raw/hex payload to handleLine
// as a synthetic line, then clears it: the parser must be back in
// AwaitingResponse before classification runs, since a scanner may decide
// the payload itself is terminal.
func (p *Parser) completeRawPayload() {
	payload := p.rawPayload
	p.rawPayload = nil
	p.state = stateAwaitingResponse
	p.handleLine(payload)
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	default:
		return 0, false
	}
}

// handleLine classifies one completed line and applies the resulting
// transition.
func (p *Parser) handleLine(line []byte) {
	if p.state == stateIdle {
		if c, _ := classify(line, nil, p.defaultScanner); c == Urc && p.urcHandler != nil {
			p.urcHandler(line)
		}
		return
	}

	c, n := classify(line, p.scanner, p.defaultScanner)
	switch c {
	case Intermediate:
		p.resp.writeLine(line)
	case Urc:
		if p.urcHandler != nil {
			p.urcHandler(line)
		}
	case Final:
		p.resp.writeLine(line)
		p.complete(result{text: p.responseText(), err: newError(string(line))})
	case FinalOk:
		p.complete(result{text: p.responseText()})
	case RawDataFollows:
		p.resp.writeLine(line)
		p.rawRemaining = n
		p.rawPayload = nil
		if n == 0 {
			p.completeRawPayload()
			return
		}
		p.state = stateReadingRaw
	case HexDataFollows:
		p.resp.writeLine(line)
		p.rawRemaining = n
		p.rawPayload = nil
		p.hexHaveHi = false
		if n == 0 {
			p.completeRawPayload()
			return
		}
		p.state = stateReadingHex
	default: // Unknown falls through to Intermediate
		p.resp.writeLine(line)
	}
}

// responseText returns the collected response lines, separated by single
// newlines, without the newline that follows the last line.
func (p *Parser) responseText() string {
	return strings.TrimSuffix(p.resp.String(), "\n")
}

func (p *Parser) completeDataPrompt() {
	if p.state != stateAwaitingResponse {
		return
	}
	p.complete(result{text: ""})
}

func (p *Parser) complete(r result) {
	w := p.waiter
	p.state = stateIdle
	p.scanner = nil
	p.asm.clearPrompt()
	p.waiter = nil
	if w != nil {
		w <- r
	}
}

// HexEncode renders data as uppercase hex, two characters per byte.
func HexEncode(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}
