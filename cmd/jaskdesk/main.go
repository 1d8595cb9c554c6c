package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskdesk/internal/config"
	"github.com/jask/jaskdesk/internal/database"
	"github.com/jask/jaskdesk/internal/database/repository"
	"github.com/jask/jaskdesk/internal/nav"
	"github.com/jask/jaskdesk/internal/service"
	"github.com/jask/jaskdesk/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	sessionRepo := repository.NewSessionRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)
	setupRepo := repository.NewSetupRepo(db)
	projectRepo := repository.NewProjectRepo(db)

	// services
	accounts := &service.AccountService{Sessions: sessionRepo, Subscriptions: subscriptionRepo, Setup: setupRepo}
	billing := &service.BillingService{Subscriptions: subscriptionRepo}
	setup := &service.SetupService{Setup: setupRepo, Projects: projectRepo}
	maintenance := &service.MaintenanceService{DB: db}

	// navigation engine
	logger := log.New(os.Stderr, "nav: ", log.LstdFlags)
	engine, err := nav.NewEngine(nav.DefaultRouteTable(), nav.DefaultRules(setup))
	if err != nil {
		log.Fatalf("rule engine: %v", err)
	}
	orchestrator := &nav.Orchestrator{
		Auth:          accounts,
		Subscriptions: billing,
		Setup:         setup,
		Retry:         nav.RetryPolicy{MaxAttempts: cfg.Fetch.MaxAttempts, Delay: cfg.Fetch.Delay()},
		Log:           logger,
	}
	bus := nav.NewBus()
	host := tui.NewRouteHost(bus)
	dispatcher := nav.NewDispatcher(orchestrator, engine, host, cfg.Nav.Cooldown(), logger)
	go dispatcher.Run(ctx, bus.Subscribe())

	app := tui.New(ctx, cfg, bus, host,
		tui.Services{Accounts: accounts, Billing: billing, Setup: setup, Maintenance: maintenance},
		projectRepo,
	)
	p := tea.NewProgram(app, tea.WithAltScreen())
	dispatcher.OnOutcome = func(o nav.Outcome) {
		p.Send(tui.OutcomeMsg{Outcome: o})
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
