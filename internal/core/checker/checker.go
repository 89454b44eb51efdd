// Package checker defines the remote availability oracle boundary and its
// RDAP-backed implementation. The checking pipeline consumes the Oracle
// interface only; everything wire-level lives here.
package checker

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Oracle answers whether a candidate handle is still unclaimed.
// Implementations must expect inputs that already satisfy the naming
// grammar; the pipeline never sends anything else.
type Oracle interface {
	// Check returns true when the name is available, false when taken.
	// Failure modes are reported as *RateLimitError, *RPCError, or any
	// other error (treated as generic by the caller).
	Check(ctx context.Context, name string) (bool, error)

	// Endpoint identifies the remote service for backoff bookkeeping.
	Endpoint() string
}

// RateLimitError signals the oracle told us to back off. RetryAfter is
// authoritative and must be honored in full.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

// RPCError is a transient protocol-level failure: the check did not
// complete but the run can continue with the next candidate.
type RPCError struct {
	Kind string
	Err  error
}

func (e *RPCError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rpc error %s: %v", e.Kind, e.Err)
	}
	return "rpc error " + e.Kind
}

func (e *RPCError) Unwrap() error { return e.Err }

// ErrorKind derives a short log-friendly kind token from an arbitrary
// error, mirroring how outcomes were historically recorded.
func ErrorKind(err error) string {
	if err == nil {
		return "UNKNOWN"
	}
	kind := fmt.Sprintf("%T", err)
	kind = strings.TrimPrefix(kind, "*")
	if idx := strings.LastIndex(kind, "."); idx >= 0 {
		kind = kind[idx+1:]
	}
	if kind == "errorString" || kind == "" {
		return "Error"
	}
	return kind
}
