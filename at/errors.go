package at

import "github.com/pkg/errors"

// CMEError indicates a CME ERROR was returned by the modem. The value is
// the error text following "+CME ERROR:", which may be numeric or
// textual depending on modem configuration (AT+CMEE).
type CMEError string

// CMSError indicates a CMS ERROR was returned by the modem, analogous to
// CMEError for SMS-related commands.
type CMSError string

func (e CMEError) Error() string { return "CME Error: " + string(e) }
func (e CMSError) Error() string { return "CMS Error: " + string(e) }

var (
	// ErrClosed indicates an operation cannot be performed because the
	// channel's port is closed, or was never opened.
	ErrClosed = errors.New("at: port closed")

	// ErrError indicates the modem ended a response with ERROR or another
	// non-OK final line (e.g. NO CARRIER) that is not a CME/CMS error.
	ErrError = errors.New("at: ERROR")

	// ErrTimeout indicates the parser did not reach a terminal
	// classification within the configured command timeout.
	ErrTimeout = errors.New("at: command timed out")

	// ErrOverLongCommand indicates a formatted command line would exceed
	// 80 bytes including the trailing CR; nothing is transmitted.
	ErrOverLongCommand = errors.New("at: formatted command exceeds 80 bytes")

	// ErrShortWrite indicates the transport accepted fewer bytes than
	// requested.
	ErrShortWrite = errors.New("at: short write to transport")

	// ErrURCReentrant indicates a URC handler attempted to issue a
	// command on the same channel from which it was invoked, which
	// would deadlock waiting on its own response.
	ErrURCReentrant = errors.New("at: command issued from within a URC handler")

	// ErrConfigExhausted indicates Config's probe/set/retry loop ran out
	// of attempts without the probed value matching.
	ErrConfigExhausted = errors.New("at: config option did not converge")
)
