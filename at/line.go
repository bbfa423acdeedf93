package at

// CharHandler rewrites an incoming byte before it is placed into the line
// buffer. It receives the byte and the line buffer accumulated so far.
// Returning '\n' forces line completion at this position regardless of
// the original byte; returning 0 drops the byte entirely. This supports
// prompt detection (e.g. rewriting ':' to '\n' on a prefix match) and
// sanitizing non-printable bytes.
type CharHandler func(b byte, line []byte) byte

// lineAssembler turns a byte stream into line-complete events, honouring
// an optional character handler and an optional data-prompt prefix match.
type lineAssembler struct {
	buf         *fixedBuffer
	charHandler CharHandler
	prompt      []byte // non-nil while a data prompt is armed
}

func newLineAssembler() *lineAssembler {
	return &lineAssembler{buf: newFixedBuffer(defaultLineCapacity)}
}

// feedByte applies the character handler, CR/LF handling, and
// prompt-prefix matching to a single incoming byte.
//
// completed reports that a line (possibly empty-to-nonempty transition)
// is ready in buf. prompted reports that the configured data-prompt
// prefix matched the buffer's content exactly; when prompted is true, the
// caller must treat this as an immediate FinalOk and buf has already been
// left holding the matched prefix (the caller resets it).
func (l *lineAssembler) feedByte(b byte) (completed, prompted bool) {
	if l.charHandler != nil {
		b = l.charHandler(b, l.buf.Bytes())
		if b == 0 {
			return false, false
		}
	}
	if b == '\r' {
		return false, false
	}
	if b == '\n' {
		if l.buf.Len() == 0 {
			return false, false
		}
		return true, false
	}
	l.buf.writeByte(b)
	if l.prompt != nil && l.buf.equals(l.prompt) {
		return false, true
	}
	return false, false
}

// line returns the assembled line and resets the buffer for the next one.
func (l *lineAssembler) line() []byte {
	s := append([]byte(nil), l.buf.Bytes()...)
	l.buf.reset()
	return s
}

func (l *lineAssembler) setPrompt(prefix string) {
	if prefix == "" {
		l.prompt = nil
		return
	}
	l.prompt = []byte(prefix)
}

func (l *lineAssembler) clearPrompt() {
	l.prompt = nil
}
