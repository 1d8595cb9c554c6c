package nav

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Route identifies a concrete screen.
type Route string

const (
	RouteLogin       Route = "login"
	RouteVerifyEmail Route = "verify-email"
	RouteSetup       Route = "setup"
	RouteProjects    Route = "projects"
	RouteBilling     Route = "billing"
	RouteLocked      Route = "locked"
)

// AllRoutes returns every concrete route in a stable order.
func AllRoutes() []Route {
	return []Route{
		RouteLogin,
		RouteVerifyEmail,
		RouteSetup,
		RouteProjects,
		RouteBilling,
		RouteLocked,
	}
}

// Valid reports whether r is a member of the closed route set.
func (r Route) Valid() bool {
	for _, known := range AllRoutes() {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRoute maps free-form input into the closed route enumeration.
// Unknown input fails with a "did you mean" suggestion when a known
// route is within edit distance 2.
func ParseRoute(s string) (Route, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", fmt.Errorf("parse route: empty input")
	}
	r := Route(normalized)
	if r.Valid() {
		return r, nil
	}
	if suggestion, ok := closestRoute(normalized); ok {
		return "", fmt.Errorf("parse route: unknown route %q (did you mean %q?)", s, suggestion)
	}
	return "", fmt.Errorf("parse route: unknown route %q", s)
}

func closestRoute(s string) (Route, bool) {
	best := Route("")
	bestDist := 3 // suggestions beyond distance 2 are noise
	for _, known := range AllRoutes() {
		d := levenshtein.ComputeDistance(s, string(known))
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	return best, best != ""
}

// RouteGroup names a cluster of related screens with one designated default.
type RouteGroup string

const (
	GroupAuth      RouteGroup = "auth"
	GroupWorkspace RouteGroup = "workspace"
	GroupAccount   RouteGroup = "account"
)

// AllGroups returns every route group in a stable order.
func AllGroups() []RouteGroup {
	return []RouteGroup{GroupAuth, GroupWorkspace, GroupAccount}
}

// Valid reports whether g is a member of the closed group set.
func (g RouteGroup) Valid() bool {
	for _, known := range AllGroups() {
		if g == known {
			return true
		}
	}
	return false
}

// RouteTable maps every route group to its single default concrete route.
// The mapping is total: construction fails unless every group is covered.
type RouteTable struct {
	defaults map[RouteGroup]Route
}

// NewRouteTable validates that defaults covers every group with a valid
// route and nothing else.
func NewRouteTable(defaults map[RouteGroup]Route) (RouteTable, error) {
	for group, route := range defaults {
		if !group.Valid() {
			return RouteTable{}, fmt.Errorf("route table: unknown group %q", group)
		}
		if !route.Valid() {
			return RouteTable{}, fmt.Errorf("route table: unknown route %q for group %q", route, group)
		}
	}
	var missing []string
	for _, group := range AllGroups() {
		if _, ok := defaults[group]; !ok {
			missing = append(missing, string(group))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return RouteTable{}, fmt.Errorf("route table: no default route for group(s) %s", strings.Join(missing, ", "))
	}
	copied := make(map[RouteGroup]Route, len(defaults))
	for group, route := range defaults {
		copied[group] = route
	}
	return RouteTable{defaults: copied}, nil
}

// DefaultFor returns the default route for a group. The table is total,
// so lookups on a validated table never miss.
func (t RouteTable) DefaultFor(group RouteGroup) Route {
	return t.defaults[group]
}

// DefaultRouteTable returns the standard jaskdesk group defaults.
func DefaultRouteTable() RouteTable {
	t, err := NewRouteTable(map[RouteGroup]Route{
		GroupAuth:      RouteLogin,
		GroupWorkspace: RouteProjects,
		GroupAccount:   RouteBilling,
	})
	if err != nil {
		panic(err) // static table; unreachable once the literal above is total
	}
	return t
}
