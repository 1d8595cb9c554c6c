package nav

import (
	"context"
	"fmt"
	"sync"
)

// in-memory sources for orchestrator and dispatcher tests

type fakeAuth struct {
	mu       sync.Mutex
	identity Identity
	failures int // first N calls fail
	calls    int
	hold     chan struct{} // when set, each call blocks until it closes
}

func (f *fakeAuth) CurrentIdentity(ctx context.Context) (Identity, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	hold := f.hold
	identity := f.identity
	failing := n <= f.failures
	f.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return Identity{}, ctx.Err()
		}
	}
	if failing {
		return Identity{}, fmt.Errorf("auth call %d failed", n)
	}
	return identity, nil
}

func (f *fakeAuth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAuth) setHold(hold chan struct{}) {
	f.mu.Lock()
	f.hold = hold
	f.mu.Unlock()
}

func (f *fakeAuth) set(identity Identity) {
	f.mu.Lock()
	f.identity = identity
	f.mu.Unlock()
}

type fakeSubscriptions struct {
	mu       sync.Mutex
	record   *SubscriptionRecord
	failures int
	calls    int
}

func (f *fakeSubscriptions) SubscriptionByUser(ctx context.Context, userID string) (*SubscriptionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("subscription call %d failed", f.calls)
	}
	return f.record, nil
}

func (f *fakeSubscriptions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSetup struct {
	mu        sync.Mutex
	record    *SetupRecord
	failures  int
	calls     int
	updateErr error
	patches   []SetupPatch
}

func (f *fakeSetup) SetupByUser(ctx context.Context, userID string) (*SetupRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("setup call %d failed", f.calls)
	}
	return f.record, nil
}

func (f *fakeSetup) UpdateSetup(ctx context.Context, userID string, patch SetupPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeSetup) patchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patches)
}

func (f *fakeSetup) setUpdateErr(err error) {
	f.mu.Lock()
	f.updateErr = err
	f.mu.Unlock()
}

type fakeHost struct {
	mu          sync.Mutex
	route       Route
	navErr      error
	navigations []Route
}

func (f *fakeHost) CurrentRoute() Route {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.route
}

func (f *fakeHost) Navigate(r Route) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.navErr != nil {
		return f.navErr
	}
	f.route = r
	f.navigations = append(f.navigations, r)
	return nil
}

func (f *fakeHost) navCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.navigations)
}
