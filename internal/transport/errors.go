package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/chriswill/rippled-network-crawler/internal/model"
)

// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is
// not in "host:port" format.
var ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

// FetchError is the typed failure of one node fetch. It carries the
// classification recorded in the session's error map, with the
// underlying cause preserved for logs.
type FetchError struct {
	// Addr is the address whose fetch failed.
	Addr model.Address

	// Code classifies the failure.
	Code model.ErrorCode

	// Err is the underlying cause, possibly nil (e.g. bad HTTP status).
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.Addr, e.Code)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Addr, e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the failure classification. The crawler reads it
// through a small interface so it does not depend on this package.
func (e *FetchError) ErrorCode() model.ErrorCode {
	return e.Code
}

// classify maps a transport-level error onto a session error code.
//
// Order matters: timeouts frequently also match net.OpError, and a
// cancelled context surfaces as a url.Error wrapping context.Canceled,
// so the more specific checks run first.
func classify(err error) model.ErrorCode {
	switch {
	case errors.Is(err, context.Canceled):
		return model.ErrorCodeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return model.ErrorCodeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.ErrorCodeTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return model.ErrorCodeRefused
	}

	if isTLSError(err) {
		return model.ErrorCodeTLS
	}

	return model.ErrorCodeNetwork
}

// isTLSError reports whether the error originated in the TLS handshake.
func isTLSError(err error) bool {
	var (
		recordErr  tls.RecordHeaderError
		verifyErr  *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		invalidErr x509.CertificateInvalidError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &invalidErr)
}
