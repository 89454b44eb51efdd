package checker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{RetryAfter: 5 * time.Second}
	require.Contains(t, err.Error(), "5s")

	var rl *RateLimitError
	require.True(t, errors.As(fmt.Errorf("check foo: %w", err), &rl))
	require.Equal(t, 5*time.Second, rl.RetryAfter)
}

func TestRPCErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &RPCError{Kind: "HTTP_502", Err: inner}
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "HTTP_502")
}

func TestErrorKind(t *testing.T) {
	require.Equal(t, "RPCError", ErrorKind(&RPCError{Kind: "x"}))
	require.Equal(t, "RateLimitError", ErrorKind(&RateLimitError{}))
	require.Equal(t, "Error", ErrorKind(errors.New("boom")))
	require.Equal(t, "UNKNOWN", ErrorKind(nil))
}

func TestRDAPOracleEndpoint(t *testing.T) {
	o := &RDAPOracle{Zone: "com"}
	require.Equal(t, "rdap.com", o.Endpoint())

	o = &RDAPOracle{Zone: "com", Server: "https://rdap.verisign.com/com/v1"}
	require.Equal(t, "rdap.verisign.com", o.Endpoint())
}
