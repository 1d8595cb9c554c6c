package nav

import (
	"context"
	"log"
	"sync"
	"time"
)

// TriggerKind identifies why a routing cycle started. Triggers carry no
// payload; the dispatcher always re-fetches fresh state.
type TriggerKind string

const (
	TriggerAuthChanged  TriggerKind = "auth-changed"
	TriggerRouteChanged TriggerKind = "route-changed"
	TriggerReEvaluate   TriggerKind = "re-evaluate"
)

// Bus fans trigger events out to subscribers. Publish never blocks; a
// subscriber whose buffer is full misses the trigger being published.
// Triggers carry no payload, so a missed one costs nothing a later
// cycle's re-fetch does not recover.
type Bus struct {
	mu   sync.Mutex
	subs []chan TriggerKind
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel of future triggers.
func (b *Bus) Subscribe() <-chan TriggerKind {
	ch := make(chan TriggerKind, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers kind to every subscriber without blocking.
func (b *Bus) Publish(kind TriggerKind) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- kind:
		default:
		}
	}
}

// Phase is the dispatcher's position in the cycle state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseResolving  Phase = "resolving"
	PhaseApplying   Phase = "applying"
	PhaseNavigating Phase = "navigating"
)

// Outcome reports what one cycle did. Delivered through OnOutcome and
// returned from Dispatch.
type Outcome struct {
	Trigger    TriggerKind
	Generation uint64
	State      ResolvedState
	Decision   Decision
	Navigated  bool
	Superseded bool
	Suppressed bool
	EffectErr  error
	NavErr     error
}

// Dispatcher turns triggers into at most one navigation each, with
// at-most-once side effects across overlapping cycles. It owns the only
// mutable shared state in the package: the generation counter, the
// cycle phase, the cooldown deadline and the applied-side-effect keys.
type Dispatcher struct {
	orchestrator *Orchestrator
	engine       *Engine
	host         NavigationHost
	cooldown     time.Duration
	logger       *log.Logger
	now          func() time.Time

	// OnOutcome, when set, receives every cycle's outcome (including
	// suppressed and superseded ones). Called outside the dispatcher lock.
	OnOutcome func(Outcome)

	mu             sync.Mutex
	generation     uint64
	phase          Phase
	cooldownUntil  time.Time
	appliedFor     string // fingerprint the applied set belongs to
	applied        map[string]struct{}
}

// NewDispatcher wires a dispatcher. Cooldown absorbs the route-change
// trigger caused by the dispatcher's own navigation.
func NewDispatcher(orch *Orchestrator, engine *Engine, host NavigationHost, cooldown time.Duration, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		orchestrator: orch,
		engine:       engine,
		host:         host,
		cooldown:     cooldown,
		logger:       logger,
		now:          time.Now,
		phase:        PhaseIdle,
		applied:      map[string]struct{}{},
	}
}

// Run consumes triggers until ctx is done. Each trigger starts its own
// cycle immediately; stale in-flight cycles are not aborted, their
// output is discarded by the generation check.
func (d *Dispatcher) Run(ctx context.Context, triggers <-chan TriggerKind) {
	for {
		select {
		case <-ctx.Done():
			return
		case kind, ok := <-triggers:
			if !ok {
				return
			}
			go d.Dispatch(ctx, kind)
		}
	}
}

// Dispatch runs one full cycle: fetch → resolve → evaluate → side
// effect → navigate. Safe to call from any goroutine; when calls
// overlap, only the most recent one's output is dispatched.
func (d *Dispatcher) Dispatch(ctx context.Context, kind TriggerKind) Outcome {
	d.mu.Lock()
	if kind == TriggerRouteChanged && d.now().Before(d.cooldownUntil) {
		d.mu.Unlock()
		return d.emit(Outcome{Trigger: kind, Suppressed: true})
	}
	d.generation++
	gen := d.generation
	d.phase = PhaseResolving
	d.mu.Unlock()

	outcome := Outcome{Trigger: kind, Generation: gen}
	raw := d.orchestrator.Fetch(ctx)
	outcome.State = Resolve(raw, d.now())
	outcome.Decision = d.engine.Evaluate(outcome.State)

	// Applying: claim the side effect under the lock, run it outside.
	effect, superseded := d.claimEffect(gen, outcome.State, outcome.Decision)
	if superseded {
		outcome.Superseded = true
		return d.emit(outcome)
	}
	if effect != nil {
		if err := effect(ctx); err != nil {
			outcome.EffectErr = err
			d.logf("side effect %s: %v", outcome.Decision.SourceRule, err)
			d.releaseEffect(outcome.Decision.SourceRule, outcome.State)
		}
	}

	// Navigating: a newer cycle may have started while the effect ran.
	if !d.enterNavigating(gen) {
		outcome.Superseded = true
		return d.emit(outcome)
	}
	if d.host.CurrentRoute() != outcome.Decision.Route {
		if err := d.host.Navigate(outcome.Decision.Route); err != nil {
			outcome.NavErr = err
			d.logf("navigate %s: %v", outcome.Decision.Route, err)
		} else {
			outcome.Navigated = true
			d.mu.Lock()
			d.cooldownUntil = d.now().Add(d.cooldown)
			d.mu.Unlock()
		}
	}

	d.mu.Lock()
	if d.generation == gen {
		d.phase = PhaseIdle
	}
	d.mu.Unlock()
	return d.emit(outcome)
}

// claimEffect moves the cycle into Applying and reserves the decision's
// side effect if it has not run for this (rule, fingerprint) pair.
// Returns superseded=true when a newer cycle owns the dispatcher.
func (d *Dispatcher) claimEffect(gen uint64, state ResolvedState, decision Decision) (SideEffect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation != gen {
		return nil, true
	}
	d.phase = PhaseApplying
	fingerprint := state.Fingerprint()
	if d.appliedFor != fingerprint {
		// new state transition: previous idempotency keys no longer
		// apply. This must happen on every cycle, effect or not, so an
		// intervening effect-less state still closes the old window.
		d.appliedFor = fingerprint
		d.applied = map[string]struct{}{}
	}
	if decision.Effect == nil {
		return nil, false
	}
	key := decision.SourceRule
	if _, done := d.applied[key]; done {
		return nil, false
	}
	d.applied[key] = struct{}{}
	return decision.Effect, false
}

// releaseEffect forgets a failed attempt so the next cycle may retry it
// while the same state still holds.
func (d *Dispatcher) releaseEffect(rule string, state ResolvedState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.appliedFor == state.Fingerprint() {
		delete(d.applied, rule)
	}
}

func (d *Dispatcher) enterNavigating(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation != gen {
		return false
	}
	d.phase = PhaseNavigating
	return true
}

// Phase returns the dispatcher's current cycle phase.
func (d *Dispatcher) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

func (d *Dispatcher) emit(o Outcome) Outcome {
	if d.OnOutcome != nil {
		d.OnOutcome(o)
	}
	return o
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}
