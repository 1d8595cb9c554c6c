package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskdesk/internal/nav"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (a *App) View() string {
	var body string
	switch a.route {
	case nav.RouteLogin:
		body = a.renderLogin()
	case nav.RouteVerifyEmail:
		body = a.renderVerify()
	case nav.RouteSetup:
		body = a.renderSetup()
	case nav.RouteBilling:
		body = a.renderBilling()
	case nav.RouteLocked:
		body = a.renderLocked()
	default:
		body = a.renderProjects()
	}

	var extra []string
	if a.resolving {
		extra = append(extra, "resolving...")
	}
	if a.degraded.Any() {
		extra = append(extra, bannerStyle.Render("⚠ some account data is unavailable; showing best-effort state ("+a.degradedSources()+")"))
	}
	if a.status != "" {
		if a.statusErr {
			extra = append(extra, errStyle.Render(a.status))
		} else {
			extra = append(extra, a.status)
		}
	}
	if len(extra) > 0 {
		body += "\n" + strings.Join(extra, "\n")
	}
	return body
}

func (a *App) degradedSources() string {
	var names []string
	if a.degraded.Auth {
		names = append(names, "auth")
	}
	if a.degraded.Subscription {
		names = append(names, "subscription")
	}
	if a.degraded.Setup {
		names = append(names, "setup")
	}
	return strings.Join(names, ", ")
}

func (a *App) renderLogin() string {
	title := titleStyle.Render("Sign in to jaskdesk")
	return fmt.Sprintf("%s\nEmail: %s\n[enter] Sign in  [esc] Quit", title, a.emailInput.View())
}

func (a *App) renderVerify() string {
	title := titleStyle.Render("Verify your email")
	return title + "\nCheck your inbox for a verification link.\n[v] I've verified  [o] Sign out  [r] Refresh  [q] Quit"
}

func (a *App) renderSetup() string {
	title := titleStyle.Render("Set up your workspace")
	return fmt.Sprintf("%s\nName your first project: %s\n[enter] Create  [esc] Quit", title, a.projectInput.View())
}

func (a *App) renderProjects() string {
	title := titleStyle.Render("Projects")
	out := title + "\n"
	if a.welcome {
		out += bannerStyle.Render("Welcome aboard! This is your workspace.") + "\n"
	}
	if len(a.projectRows) == 0 {
		out += "(no projects yet)\n"
	}
	for _, p := range a.projectRows {
		out += fmt.Sprintf("• %-32s %s\n", p.Name, p.CreatedAt.Format(a.cfg.UI.DateFormat))
	}
	if a.addingProject {
		out += fmt.Sprintf("New project: %s\n[enter] Save  [esc] Cancel", a.projectInput.View())
		return out
	}
	out += "[n] New project  [r] Re-evaluate  [x] Expire sub (demo)  [o] Sign out  [X] Reset  [q] Quit"
	return out
}

func (a *App) renderBilling() string {
	title := titleStyle.Render("Billing")
	return title + "\nYour subscription needs attention.\n[u] Renew (pro, 1 year)  [o] Sign out  [r] Refresh  [q] Quit"
}

func (a *App) renderLocked() string {
	title := titleStyle.Render("Workspace locked")
	return title + "\nThis workspace's subscription has lapsed.\nAsk a workspace admin to renew it.\n[o] Sign out  [r] Refresh  [q] Quit"
}
