package at

import (
	"strings"
	"testing"
)

func feed(p *Parser, s string) {
	for i := 0; i < len(s); i++ {
		p.FeedByte(s[i])
	}
}

func TestParserSimpleOK(t *testing.T) {
	p := NewParser()
	waiter := make(chan result, 1)
	p.Arm(nil, "", waiter)
	feed(p, "\r\nOK\r\n")
	select {
	case r := <-waiter:
		if r.text != "" || r.err != nil {
			t.Fatalf("got %q, %v; want empty response, nil error", r.text, r.err)
		}
	default:
		t.Fatal("response not completed")
	}
}

func TestParserQueryPlusValue(t *testing.T) {
	p := NewParser()
	waiter := make(chan result, 1)
	p.Arm(nil, "", waiter)
	feed(p, "+CSQ: 14,0\r\nOK\r\n")
	r := <-waiter
	if r.text != "+CSQ: 14,0" {
		t.Fatalf("got %q, want %q", r.text, "+CSQ: 14,0")
	}
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
}

func TestParserURCMidWait(t *testing.T) {
	p := NewParser()
	var urcs []string
	p.SetURCHandler(func(line []byte) { urcs = append(urcs, string(line)) })
	fallback := func(line []byte) (Classification, int) {
		if strings.HasPrefix(string(line), "+CREG:") {
			return Urc, 0
		}
		return Unknown, 0
	}
	p.SetDefaultScanner(fallback)

	waiter := make(chan result, 1)
	p.Arm(nil, "", waiter)
	feed(p, "+CREG: 1,1\r\n")
	select {
	case <-waiter:
		t.Fatal("response completed prematurely on a URC")
	default:
	}
	if len(urcs) != 1 || urcs[0] != "+CREG: 1,1" {
		t.Fatalf("urcs = %v, want one +CREG: 1,1", urcs)
	}
	feed(p, "Quectel\r\nOK\r\n")
	r := <-waiter
	if r.text != "Quectel" {
		t.Fatalf("got %q, want %q", r.text, "Quectel")
	}
}

func TestParserBinaryPayload(t *testing.T) {
	p := NewParser()
	scanner := func(line []byte) (Classification, int) {
		if string(line) == "+QIRD: 1,TCP,5" {
			return RawDataFollows, 5
		}
		return Unknown, 0
	}
	waiter := make(chan result, 1)
	p.Arm(scanner, "", waiter)
	feed(p, "+QIRD: 1,TCP,5\r\n")
	p.FeedByte(0x00)
	p.FeedByte(0x01)
	p.FeedByte(0xFF)
	p.FeedByte(0x7F)
	p.FeedByte(0x80)
	feed(p, "OK\r\n")
	r := <-waiter
	want := "+QIRD: 1,TCP,5\n" + string([]byte{0x00, 0x01, 0xFF, 0x7F, 0x80})
	if !strings.HasPrefix(r.text, want) {
		t.Fatalf("got %q, want prefix %q", r.text, want)
	}
}

func TestParserHexPayload(t *testing.T) {
	p := NewParser()
	scanner := func(line []byte) (Classification, int) {
		if string(line) == "+RECV: 2" {
			return HexDataFollows, 2
		}
		return Unknown, 0
	}
	waiter := make(chan result, 1)
	p.Arm(scanner, "", waiter)
	feed(p, "+RECV: 2\r\nA0FF\r\nOK\r\n")
	r := <-waiter
	want := "+RECV: 2\n" + string([]byte{0xA0, 0xFF})
	if !strings.HasPrefix(r.text, want) {
		t.Fatalf("got %q, want prefix %q", r.text, want)
	}
}

func TestParserHexDataFollowsZero(t *testing.T) {
	// HexDataFollows(0) is legal: no bytes consumed.
	p := NewParser()
	scanner := func(line []byte) (Classification, int) {
		if string(line) == "+RECV: 0" {
			return HexDataFollows, 0
		}
		return Unknown, 0
	}
	waiter := make(chan result, 1)
	p.Arm(scanner, "", waiter)
	feed(p, "+RECV: 0\r\nOK\r\n")
	r := <-waiter
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
}

func TestParserRawPayloadCanCompleteResponse(t *testing.T) {
	// Once a raw payload is fully consumed it must be run back through
	// classification exactly like any other line, not appended straight to
	// the response buffer: a scanner watching for a specific payload can
	// complete the response from the payload itself, without a separate
	// terminal line following it.
	p := NewParser()
	scanner := func(line []byte) (Classification, int) {
		switch {
		case string(line) == "+QIRD: 1,TCP,2":
			return RawDataFollows, 2
		case string(line) == string([]byte{0x00, 0x00}):
			return FinalOk, 0
		}
		return Unknown, 0
	}
	waiter := make(chan result, 1)
	p.Arm(scanner, "", waiter)
	feed(p, "+QIRD: 1,TCP,2\r\n")
	p.FeedByte(0x00)
	p.FeedByte(0x00)
	select {
	case r := <-waiter:
		if r.err != nil {
			t.Fatalf("unexpected error: %v", r.err)
		}
	default:
		t.Fatal("response not completed: raw payload was not reclassified")
	}
}

func TestParserHexDataFollowsZeroClassifiesEmptyPayload(t *testing.T) {
	// The synthetic empty line emitted once a HexDataFollows(0) payload is
	// "consumed" must be run back through classification: a scanner that
	// completes the response on the empty payload itself must fire,
	// without a separate terminal line.
	p := NewParser()
	sawEmpty := false
	scanner := func(line []byte) (Classification, int) {
		if string(line) == "+RECV: 0" {
			return HexDataFollows, 0
		}
		if len(line) == 0 {
			sawEmpty = true
			return FinalOk, 0
		}
		return Unknown, 0
	}
	waiter := make(chan result, 1)
	p.Arm(scanner, "", waiter)
	feed(p, "+RECV: 0\r\n")
	select {
	case r := <-waiter:
		if r.err != nil {
			t.Fatalf("unexpected error: %v", r.err)
		}
	default:
		t.Fatal("response not completed on empty synthetic payload line")
	}
	if !sawEmpty {
		t.Fatal("scanner never saw the synthetic empty payload line")
	}
}

func TestParserDataPromptNoNewline(t *testing.T) {
	p := NewParser()
	waiter := make(chan result, 1)
	p.Arm(nil, "> ", waiter)
	feed(p, "> ")
	r := <-waiter
	if r.text != "" {
		t.Fatalf("got %q, want empty response on prompt match", r.text)
	}
}

func TestParserIdleDiscardsNonURC(t *testing.T) {
	p := NewParser()
	var urcCount int
	p.SetURCHandler(func(line []byte) { urcCount++ })
	feed(p, "spurious line\r\n")
	if urcCount != 0 {
		t.Fatalf("urcCount = %d, want 0 for a non-URC line while Idle", urcCount)
	}
	if p.resp.Len() != 0 {
		t.Fatalf("response buffer mutated while Idle")
	}
}

func TestParserFinalPreservesErrorText(t *testing.T) {
	p := NewParser()
	waiter := make(chan result, 1)
	p.Arm(nil, "", waiter)
	feed(p, "+CME ERROR: 10\r\n")
	r := <-waiter
	if r.err == nil {
		t.Fatal("expected a CMEError")
	}
	if _, ok := r.err.(CMEError); !ok {
		t.Fatalf("got error type %T, want CMEError", r.err)
	}
	if !strings.Contains(r.text, "+CME ERROR: 10") {
		t.Fatalf("response text %q should preserve the error line", r.text)
	}
}

func TestParserResetClearsState(t *testing.T) {
	p := NewParser()
	waiter := make(chan result, 1)
	p.Arm(nil, "", waiter)
	feed(p, "partial")
	p.Reset()
	if p.state != stateIdle {
		t.Fatalf("state = %v, want Idle after Reset", p.state)
	}
	if p.asm.buf.Len() != 0 {
		t.Fatalf("line buffer not cleared after Reset")
	}
}

func TestParserOverflowCounter(t *testing.T) {
	p := NewParser()
	waiter := make(chan result, 1)
	p.Arm(nil, "", waiter)
	for i := 0; i < 200; i++ {
		p.FeedByte('a')
	}
	if p.Overflows() == 0 {
		t.Fatal("expected overflow count to be nonzero after a 200-byte line")
	}
}
