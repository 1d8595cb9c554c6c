package tui

import (
	"sync"

	"github.com/jask/jaskdesk/internal/nav"
)

// RouteHost implements nav.NavigationHost for the TUI. The dispatcher
// navigates from its own goroutine, so the current route sits behind a
// mutex; the app reads it when an outcome message arrives.
//
// Navigate republishes a route-change trigger, modeling the feedback
// loop a navigation causes in the host UI. The dispatcher's cooldown
// absorbs it.
type RouteHost struct {
	mu    sync.Mutex
	route nav.Route
	bus   *nav.Bus
}

// NewRouteHost starts at the login screen until the first cycle decides
// otherwise.
func NewRouteHost(bus *nav.Bus) *RouteHost {
	return &RouteHost{route: nav.RouteLogin, bus: bus}
}

// CurrentRoute implements nav.NavigationHost.
func (h *RouteHost) CurrentRoute() nav.Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.route
}

// Navigate implements nav.NavigationHost.
func (h *RouteHost) Navigate(r nav.Route) error {
	h.mu.Lock()
	h.route = r
	h.mu.Unlock()
	if h.bus != nil {
		h.bus.Publish(nav.TriggerRouteChanged)
	}
	return nil
}
