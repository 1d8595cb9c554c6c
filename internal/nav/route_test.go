package nav

import (
	"strings"
	"testing"
)

func TestParseRoute(t *testing.T) {
	for _, known := range AllRoutes() {
		got, err := ParseRoute(string(known))
		if err != nil {
			t.Fatalf("ParseRoute(%q): %v", known, err)
		}
		if got != known {
			t.Fatalf("ParseRoute(%q) = %q", known, got)
		}
	}

	got, err := ParseRoute("  Projects ")
	if err != nil {
		t.Fatalf("ParseRoute with whitespace/case: %v", err)
	}
	if got != RouteProjects {
		t.Fatalf("ParseRoute normalized = %q, want %q", got, RouteProjects)
	}
}

func TestParseRouteRejectsUnknown(t *testing.T) {
	if _, err := ParseRoute(""); err == nil {
		t.Fatal("empty input accepted")
	}
	if _, err := ParseRoute("dashboard"); err == nil {
		t.Fatal("unknown route accepted")
	}
}

func TestParseRouteSuggestsClose(t *testing.T) {
	_, err := ParseRoute("projcts")
	if err == nil {
		t.Fatal("typo accepted")
	}
	if !strings.Contains(err.Error(), `did you mean "projects"`) {
		t.Fatalf("no suggestion in error: %v", err)
	}

	_, err = ParseRoute("zzzzzzzz")
	if err == nil {
		t.Fatal("garbage accepted")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("suggestion for distant input: %v", err)
	}
}

func TestNewRouteTableRequiresTotality(t *testing.T) {
	_, err := NewRouteTable(map[RouteGroup]Route{
		GroupAuth: RouteLogin,
	})
	if err == nil {
		t.Fatal("partial table accepted")
	}
	if !strings.Contains(err.Error(), "account") || !strings.Contains(err.Error(), "workspace") {
		t.Fatalf("missing groups not named: %v", err)
	}
}

func TestNewRouteTableRejectsUnknownEntries(t *testing.T) {
	_, err := NewRouteTable(map[RouteGroup]Route{
		GroupAuth:      RouteLogin,
		GroupWorkspace: RouteProjects,
		GroupAccount:   Route("settings"),
	})
	if err == nil {
		t.Fatal("unknown route accepted")
	}

	_, err = NewRouteTable(map[RouteGroup]Route{
		GroupAuth:          RouteLogin,
		GroupWorkspace:     RouteProjects,
		GroupAccount:       RouteBilling,
		RouteGroup("misc"): RouteLocked,
	})
	if err == nil {
		t.Fatal("unknown group accepted")
	}
}

func TestDefaultRouteTable(t *testing.T) {
	table := DefaultRouteTable()
	cases := map[RouteGroup]Route{
		GroupAuth:      RouteLogin,
		GroupWorkspace: RouteProjects,
		GroupAccount:   RouteBilling,
	}
	for group, want := range cases {
		if got := table.DefaultFor(group); got != want {
			t.Fatalf("DefaultFor(%s) = %q, want %q", group, got, want)
		}
	}
}
