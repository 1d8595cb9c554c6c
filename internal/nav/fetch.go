package nav

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds per-source fetch retries: a fixed delay between
// attempts and no backoff growth, so the worst case per source is
// MaxAttempts * Delay.
type RetryPolicy struct {
	MaxAttempts uint64
	Delay       time.Duration
}

// DefaultRetryPolicy allows 5 attempts, 500ms apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 5, Delay: 500 * time.Millisecond}

// Orchestrator fetches the raw records required for resolution. Sources
// run concurrently with independent retry budgets; a slow or failing
// source degrades to a default instead of blocking the cycle. Failures
// surface only as degraded flags, never as errors to the caller.
type Orchestrator struct {
	Auth          AuthSource
	Subscriptions SubscriptionStore
	Setup         SetupStore
	Retry         RetryPolicy
	Log           *log.Logger
}

// Fetch gathers raw records. The identity read comes first because the
// subscription and setup stores are keyed by user id; those two then
// run concurrently. A cycle's wall clock is therefore bounded by the
// identity budget plus the larger of the two record budgets, never the
// sum of all three. With no authenticated user, including an identity
// read that exhausts its retries, the record fetches are skipped
// entirely (vacuously absent, not degraded).
func (o *Orchestrator) Fetch(ctx context.Context) RawRecords {
	var raw RawRecords

	identity, err := fetchWithRetry(ctx, o.Retry, func() (Identity, error) {
		return o.Auth.CurrentIdentity(ctx)
	})
	if err != nil {
		o.logf("fetch auth: retries exhausted: %v", err)
		raw.Degraded.Auth = true
	} else {
		raw.Identity = &identity
	}

	if raw.Identity == nil || !raw.Identity.Authenticated {
		return raw
	}
	userID := raw.Identity.UserID

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		record, err := fetchWithRetry(ctx, o.Retry, func() (*SubscriptionRecord, error) {
			return o.Subscriptions.SubscriptionByUser(ctx, userID)
		})
		if err != nil {
			o.logf("fetch subscription: retries exhausted: %v", err)
			raw.Degraded.Subscription = true
			return
		}
		raw.Subscription = record
	}()
	go func() {
		defer wg.Done()
		record, err := fetchWithRetry(ctx, o.Retry, func() (*SetupRecord, error) {
			return o.Setup.SetupByUser(ctx, userID)
		})
		if err != nil {
			o.logf("fetch setup: retries exhausted: %v", err)
			raw.Degraded.Setup = true
			return
		}
		raw.Setup = record
	}()
	wg.Wait()
	return raw
}

// fetchWithRetry runs op under the policy's constant-interval retry.
// MaxAttempts counts total attempts, so the backoff allows
// MaxAttempts-1 retries after the first try.
func fetchWithRetry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	var out T
	retry := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Delay), attempts-1),
		ctx,
	)
	err := backoff.Retry(func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	}, retry)
	return out, err
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Log != nil {
		o.Log.Printf(format, args...)
	}
}
