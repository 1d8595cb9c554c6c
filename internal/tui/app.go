package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskdesk/internal/config"
	"github.com/jask/jaskdesk/internal/database/repository"
	"github.com/jask/jaskdesk/internal/nav"
	"github.com/jask/jaskdesk/internal/service"
)

// App ties together the routed screens. It never picks its own screen:
// every transition goes through the navigation dispatcher, and the app
// just renders whatever route the host currently holds.
type App struct {
	ctx      context.Context
	cfg      config.Config
	bus      *nav.Bus
	host     *RouteHost
	accounts *service.AccountService
	billing  *service.BillingService
	setup    *service.SetupService
	projects *repository.ProjectRepo
	maint    *service.MaintenanceService

	route         nav.Route
	degraded      nav.DegradedSources
	welcome       bool
	userID        string
	status        string
	statusErr     bool
	resolving     bool
	projectRows   []repository.Project
	addingProject bool

	emailInput   textinput.Model
	projectInput textinput.Model
}

// Services bundles the collaborators the app mutates.
type Services struct {
	Accounts    *service.AccountService
	Billing     *service.BillingService
	Setup       *service.SetupService
	Maintenance *service.MaintenanceService
}

func New(ctx context.Context, cfg config.Config, bus *nav.Bus, host *RouteHost, services Services, projects *repository.ProjectRepo) *App {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Focus()

	project := textinput.New()
	project.Placeholder = "My first project"
	project.CharLimit = 80

	return &App{
		ctx:          ctx,
		cfg:          cfg,
		bus:          bus,
		host:         host,
		accounts:     services.Accounts,
		billing:      services.Billing,
		setup:        services.Setup,
		maint:        services.Maintenance,
		projects:     projects,
		route:        host.CurrentRoute(),
		emailInput:   email,
		projectInput: project,
	}
}

// OutcomeMsg delivers a routing cycle's outcome into the update loop.
// main wires dispatcher.OnOutcome to p.Send with this type.
type OutcomeMsg struct {
	Outcome nav.Outcome
}

type projectsMsg []repository.Project

type statusMsg string

type errMsg struct{ error }

func (a *App) Init() tea.Cmd {
	a.resolving = true
	return a.publishCmd(nav.TriggerReEvaluate)
}

// publishCmd emits a trigger onto the bus; the dispatcher's Run loop
// picks it up and the outcome comes back as an OutcomeMsg.
func (a *App) publishCmd(kind nav.TriggerKind) tea.Cmd {
	return func() tea.Msg {
		a.bus.Publish(kind)
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case OutcomeMsg:
		return a.handleOutcome(m.Outcome)
	case projectsMsg:
		a.projectRows = []repository.Project(m)
	case statusMsg:
		a.status = string(m)
		a.statusErr = false
	case errMsg:
		a.status = "error: " + m.Error()
		a.statusErr = true
	}
	return a, nil
}

func (a *App) handleOutcome(o nav.Outcome) (tea.Model, tea.Cmd) {
	if o.Suppressed || o.Superseded {
		return a, nil
	}
	a.resolving = false
	a.route = a.host.CurrentRoute()
	a.degraded = o.State.Degraded
	a.userID = o.State.UserID
	a.welcome = o.Decision.SourceRule == "onboarding"

	var cmds []tea.Cmd
	if o.State.ExplicitRedirect != nil {
		cmds = append(cmds, a.clearRedirectCmd())
	}
	if a.route == nav.RouteProjects {
		cmds = append(cmds, a.loadProjects())
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.route {
	case nav.RouteLogin:
		return a.handleLoginKey(m)
	case nav.RouteVerifyEmail:
		return a.handleVerifyKey(m)
	case nav.RouteSetup:
		return a.handleSetupKey(m)
	case nav.RouteProjects:
		return a.handleProjectsKey(m)
	case nav.RouteBilling:
		return a.handleBillingKey(m)
	case nav.RouteLocked:
		return a.handleLockedKey(m)
	}
	return a, nil
}

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEnter:
		email := a.emailInput.Value()
		return a, a.signInCmd(email)
	case tea.KeyEsc:
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.emailInput, cmd = a.emailInput.Update(m)
	return a, cmd
}

func (a *App) handleVerifyKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "v":
		return a, a.verifyCmd()
	case "o":
		return a, a.signOutCmd()
	case "r":
		a.resolving = true
		return a, a.publishCmd(nav.TriggerReEvaluate)
	}
	return a, nil
}

func (a *App) handleSetupKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.projectInput.Focused() {
		a.projectInput.Focus()
	}
	switch m.Type {
	case tea.KeyEnter:
		name := a.projectInput.Value()
		return a, a.completeSetupCmd(name)
	case tea.KeyEsc:
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.projectInput, cmd = a.projectInput.Update(m)
	return a, cmd
}

func (a *App) handleProjectsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.addingProject {
		switch m.Type {
		case tea.KeyEsc:
			a.addingProject = false
			a.projectInput.SetValue("")
			return a, nil
		case tea.KeyEnter:
			name := a.projectInput.Value()
			a.addingProject = false
			a.projectInput.SetValue("")
			return a, a.createProjectCmd(name)
		}
		var cmd tea.Cmd
		a.projectInput, cmd = a.projectInput.Update(m)
		return a, cmd
	}

	switch m.String() {
	case "q":
		return a, tea.Quit
	case "n":
		a.addingProject = true
		a.projectInput.Focus()
	case "r":
		a.resolving = true
		return a, a.publishCmd(nav.TriggerReEvaluate)
	case "x":
		return a, a.expireCmd()
	case "o":
		return a, a.signOutCmd()
	case "X":
		return a, a.resetCmd()
	}
	return a, nil
}

func (a *App) handleBillingKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "u":
		return a, a.renewCmd()
	case "o":
		return a, a.signOutCmd()
	case "r":
		a.resolving = true
		return a, a.publishCmd(nav.TriggerReEvaluate)
	}
	return a, nil
}

func (a *App) handleLockedKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "o":
		return a, a.signOutCmd()
	case "r":
		a.resolving = true
		return a, a.publishCmd(nav.TriggerReEvaluate)
	}
	return a, nil
}

// commands

func (a *App) signInCmd(email string) tea.Cmd {
	return func() tea.Msg {
		if err := a.accounts.SignIn(a.ctx, email); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerAuthChanged)
		return statusMsg("signed in")
	}
}

func (a *App) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.accounts.SignOut(a.ctx); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerAuthChanged)
		return statusMsg("signed out")
	}
}

func (a *App) verifyCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.accounts.VerifyEmail(a.ctx); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerAuthChanged)
		return statusMsg("email verified")
	}
}

func (a *App) clearRedirectCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.accounts.ClearRedirect(a.ctx); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) completeSetupCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.setup.CompleteSetup(a.ctx, a.userID, name); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerReEvaluate)
		return statusMsg("workspace ready")
	}
}

func (a *App) createProjectCmd(name string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.setup.CreateProject(a.ctx, a.userID, name); err != nil {
				return errMsg{err}
			}
			return statusMsg("project created")
		},
		a.loadProjects(),
	)
}

func (a *App) loadProjects() tea.Cmd {
	return func() tea.Msg {
		if a.userID == "" {
			return projectsMsg(nil)
		}
		list, err := a.projects.ListByUser(a.ctx, a.userID)
		if err != nil {
			return errMsg{err}
		}
		return projectsMsg(list)
	}
}

func (a *App) expireCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.billing.Expire(a.ctx, a.userID); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerReEvaluate)
		return statusMsg("subscription expired (demo)")
	}
}

func (a *App) renewCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.billing.Renew(a.ctx, a.userID); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerReEvaluate)
		return statusMsg("subscription renewed")
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if a.maint == nil {
			return errMsg{fmt.Errorf("maintenance not configured")}
		}
		if err := a.maint.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		a.bus.Publish(nav.TriggerAuthChanged)
		return statusMsg("all data cleared")
	}
}
