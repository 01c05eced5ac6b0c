package nidlogin

import (
	"fmt"

	"github.com/myboxcli/mybox/lib/sse"
	"github.com/pkg/errors"
)

// ParseError is returned when an expected element or attribute is
// missing from a NID page
type ParseError struct {
	Element string // CSS selector of the element
	Attr    string // attribute wanted, if any
	Reason  string // extra detail
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("nid login: couldn't find %s", e.Element)
	if e.Attr != "" {
		msg = fmt.Sprintf("nid login: couldn't find %s@%s", e.Element, e.Attr)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// CryptoError is returned when the key material or the credentials
// can't be used for encryption
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("nid login: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *CryptoError) Unwrap() error {
	return e.Err
}

// UnsupportedMethodError is returned by Result.Err when the server
// asked for a login method which isn't implemented, such as a
// captcha, a QR code or a one time number.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("nid login: unsupported login method %q", e.Method)
}

// TransportError is returned when an HTTP exchange with NID fails
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("nid login: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// StreamDecodeError is returned when the OTP event stream isn't valid text
type StreamDecodeError = sse.StreamDecodeError

var (
	// ErrOTPTimeout is returned if the push confirmation wasn't
	// completed before Options.OTPTimeout expired
	ErrOTPTimeout = errors.New("nid login: timed out waiting for OTP push confirmation")

	// ErrOTPRejected is returned if the OTP acknowledgement didn't
	// yield a session
	ErrOTPRejected = errors.New("nid login: OTP confirmation rejected")
)
