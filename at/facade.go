package at

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// CommandOption customizes a single Command/CommandRaw call. Unlike
// Option (which configures the Channel), these are one-shot and consumed
// by the armed command they're attached to.
type CommandOption func(*request)

// WithScanner arms a transient per-command scanner, authoritative over
// the channel's default scanner for this command only.
func WithScanner(s Scanner) CommandOption {
	return func(r *request) { r.scanner = s }
}

// WithDataPrompt arms data-prompt detection for this command only: if the
// given prefix (commonly "> " or "@") appears at the start of a line with
// no trailing newline, the command completes immediately with an empty
// response.
func WithDataPrompt(prefix string) CommandOption {
	return func(r *request) { r.prompt = prefix }
}

// Command formats cmd (printf-style) and args into a single AT command
// line, transmits it with a trailing CR, and blocks until the parser
// reaches a terminal classification or ctx/the channel's timeout expires.
// The returned string is the response text accumulated between the
// command and its terminal line (empty for a bare OK).
//
// args may freely mix printf arguments and CommandOptions (e.g.
// WithScanner, WithDataPrompt); each is routed to formatting or to the
// armed request by its own type, so callers never need to separate them.
func (c *Channel) Command(ctx context.Context, cmd string, args ...interface{}) (string, error) {
	var opts []CommandOption
	var fmtArgs []interface{}
	for _, a := range args {
		if opt, ok := a.(CommandOption); ok {
			opts = append(opts, opt)
			continue
		}
		fmtArgs = append(fmtArgs, a)
	}
	req := request{line: formatLine(cmd, fmtArgs...)}
	for _, opt := range opts {
		opt(&req)
	}
	return c.submit(ctx, req)
}

// CommandRaw transmits data verbatim (no formatting, no trailing CR) and
// waits for a response exactly like Command. It is used to supply the
// binary/text body requested by a prior data prompt.
func (c *Channel) CommandRaw(ctx context.Context, data []byte, opts ...CommandOption) (string, error) {
	req := request{line: string(data), raw: true}
	for _, opt := range opts {
		opt(&req)
	}
	return c.submit(ctx, req)
}

// Send transmits a formatted command line with a trailing CR without
// arming the parser: it is fire-and-forget, used for commands whose
// response the caller does not need to correlate (or will observe via a
// URC/the next Command's response-buffer interleaving).
func (c *Channel) Send(cmd string, args ...interface{}) error {
	line := "AT" + formatLine(cmd, args...) + "\r"
	if len(line) > 80 {
		return ErrOverLongCommand
	}
	return c.write(line)
}

// SendRaw transmits data verbatim without arming the parser.
func (c *Channel) SendRaw(data []byte) error {
	return c.write(string(data))
}

// SendHex hex-encodes data as uppercase characters and streams it in
// chunks of 40 input bytes (80 output hex characters) per write, to bound
// the size of any per-write buffer.
func (c *Channel) SendHex(data []byte) error {
	const chunk = 40
	for len(data) > 0 {
		n := chunk
		if n > len(data) {
			n = len(data)
		}
		if err := c.write(HexEncode(data[:n])); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Config probes "AT+<option>?" and compares the response against
// "+<option>: <value>"; on mismatch it issues "AT+<option>=<value>" and
// retries the probe after a one-second backoff, up to attempts times.
// It returns ErrConfigExhausted if the value never converges, or a
// transport-level error (ErrTimeout, ErrClosed, ...) if one occurs along
// the way.
func (c *Channel) Config(ctx context.Context, option, value string, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	want := fmt.Sprintf("+%s: %s", option, value)

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), uint64(attempts-1))

	attempt := 0
	op := func() error {
		attempt++
		got, err := c.Command(ctx, "+"+option+"?")
		if err != nil {
			return backoff.Permanent(err)
		}
		if strings.TrimSpace(got) == want {
			return nil
		}
		if _, err := c.Command(ctx, "+"+option+"="+value); err != nil {
			return backoff.Permanent(err)
		}
		if attempt >= attempts {
			return backoff.Permanent(ErrConfigExhausted)
		}
		return ErrConfigExhausted // trigger retry
	}
	return backoff.Retry(op, policy)
}
