package checker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openrdap/rdap"
	"golang.org/x/time/rate"
)

// defaultRetryAfter is used when a rate-limit response carries no usable
// Retry-After header.
const defaultRetryAfter = 30 * time.Second

// RDAPOracle checks handle availability by probing <name>.<Zone> against a
// domain RDAP service. A not-found answer means the handle is unclaimed in
// that zone; a registered domain means taken.
type RDAPOracle struct {
	// Client defaults to a zero rdap.Client (bootstrap resolution).
	Client *rdap.Client

	// Server optionally pins a specific RDAP base URL instead of bootstrap.
	Server string

	// Zone is the TLD under which handles are probed, without a leading dot.
	Zone string

	// Timeout applies per request when positive.
	Timeout time.Duration

	// Limiter is a hard client-side ceiling on outbound query rate. The
	// pipeline's pacing sleeps are the primary discipline; this guards
	// against misconfigured delay bounds.
	Limiter *rate.Limiter
}

// Endpoint identifies the oracle for backoff bookkeeping.
func (o *RDAPOracle) Endpoint() string {
	if o.Server != "" {
		if parsed, err := url.Parse(o.Server); err == nil && parsed.Hostname() != "" {
			return parsed.Hostname()
		}
	}
	return "rdap." + o.Zone
}

// Check implements Oracle over RDAP.
func (o *RDAPOracle) Check(ctx context.Context, name string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if o.Limiter != nil {
		if err := o.Limiter.Wait(ctx); err != nil {
			return false, &RPCError{Kind: "LimiterWait", Err: err}
		}
	}

	domain := fmt.Sprintf("%s.%s", name, o.Zone)
	req := rdap.NewDomainRequest(domain)
	if o.Server != "" {
		serverURL, err := url.Parse(o.Server)
		if err != nil {
			return false, &RPCError{Kind: "BadServerURL", Err: err}
		}
		req = req.WithServer(serverURL)
	}
	if o.Timeout > 0 {
		req.Timeout = o.Timeout
	}
	req = req.WithContext(ctx)

	client := o.Client
	if client == nil {
		client = &rdap.Client{}
	}

	resp, err := client.Do(req)
	status := responseStatus(resp)

	if err != nil {
		if isNotFound(err) || status == 404 {
			return true, nil
		}
		if status == 429 {
			retry := retryAfter(resp)
			if retry <= 0 {
				retry = defaultRetryAfter
			}
			return false, &RateLimitError{RetryAfter: retry}
		}
		if status >= 500 && status <= 599 {
			return false, &RPCError{Kind: fmt.Sprintf("HTTP_%d", status), Err: err}
		}
		return false, &RPCError{Kind: "RDAPQuery", Err: err}
	}

	if _, ok := resp.Object.(*rdap.Domain); ok {
		return false, nil
	}

	return false, &RPCError{Kind: "UnexpectedResponse"}
}

func responseStatus(resp *rdap.Response) int {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}
	return resp.HTTP[0].Response.StatusCode
}

func retryAfter(resp *rdap.Response) time.Duration {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}

	retry := resp.HTTP[0].Response.Header.Get("Retry-After")
	if retry == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retry); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := http.ParseTime(retry); err == nil {
		return time.Until(parsed)
	}
	return 0
}

func isNotFound(err error) bool {
	clientErr, ok := err.(*rdap.ClientError)
	if !ok {
		return false
	}
	return clientErr.Type == rdap.ObjectDoesNotExist
}
