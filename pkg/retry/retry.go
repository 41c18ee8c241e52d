package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy bounds a retry loop: at most MaxAttempts total calls, exponential
// backoff starting at InitialBackoff.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// DefaultPolicy matches the conversion contract: three attempts, 1s initial backoff.
var DefaultPolicy = Policy{MaxAttempts: 3, InitialBackoff: time.Second}

// Do runs fn under the policy, retrying only when retryable reports true for
// the returned error. Errors outside the retryable class propagate immediately;
// the last error is returned once attempts are exhausted.
func Do(ctx context.Context, policy Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = DefaultPolicy.InitialBackoff
	}
	if retryable == nil {
		retryable = func(error) bool { return false }
	}

	backoff := retry.WithMaxRetries(uint64(policy.MaxAttempts-1), retry.NewExponential(policy.InitialBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
