package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jask/jaskdesk/internal/database"
	"github.com/jask/jaskdesk/internal/database/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSessionRepo(newTestDB(t))

	s, err := repo.Current(ctx)
	if err != nil {
		t.Fatalf("Current on empty db: %v", err)
	}
	if s != nil {
		t.Fatalf("expected no session, got %+v", s)
	}

	if err := repo.Upsert(ctx, repository.Session{
		ID:            repository.LocalSessionID,
		UserID:        "u1",
		Email:         "a@example.com",
		Authenticated: true,
		Permission:    3,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	s, err = repo.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if s == nil || s.UserID != "u1" || !s.Authenticated || s.EmailVerified {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.RedirectPath != nil {
		t.Fatalf("fresh session has redirect: %v", *s.RedirectPath)
	}

	if err := repo.SetVerified(ctx, "projects"); err != nil {
		t.Fatalf("SetVerified: %v", err)
	}
	s, _ = repo.Current(ctx)
	if !s.EmailVerified || s.RedirectPath == nil || *s.RedirectPath != "projects" {
		t.Fatalf("verification not recorded: %+v", s)
	}

	if err := repo.ClearRedirect(ctx); err != nil {
		t.Fatalf("ClearRedirect: %v", err)
	}
	s, _ = repo.Current(ctx)
	if s.RedirectPath != nil {
		t.Fatalf("redirect survived clear: %v", *s.RedirectPath)
	}
	// clearing twice is fine
	if err := repo.ClearRedirect(ctx); err != nil {
		t.Fatalf("second ClearRedirect: %v", err)
	}

	if err := repo.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	s, _ = repo.Current(ctx)
	if s != nil {
		t.Fatalf("session survived delete: %+v", s)
	}
}

func TestSessionUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSessionRepo(newTestDB(t))

	first := repository.Session{ID: repository.LocalSessionID, UserID: "u1", Email: "a@example.com", Authenticated: true}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second := repository.Session{ID: repository.LocalSessionID, UserID: "u2", Email: "b@example.com", Authenticated: true, EmailVerified: true}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	s, err := repo.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if s.UserID != "u2" || s.Email != "b@example.com" || !s.EmailVerified {
		t.Fatalf("upsert did not replace: %+v", s)
	}
}

func TestSubscriptionRepo(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubscriptionRepo(newTestDB(t))

	s, err := repo.ByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ByUser on empty db: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil for missing row, got %+v", s)
	}

	expires := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, repository.Subscription{
		UserID: "u1", Plan: "pro", Status: "active", IsTrial: true, ExpiresAt: &expires,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	s, err = repo.ByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	if s.Plan != "pro" || s.Status != "active" || !s.IsTrial {
		t.Fatalf("unexpected row: %+v", s)
	}
	if s.ExpiresAt == nil || !s.ExpiresAt.Equal(expires) {
		t.Fatalf("expires_at = %v, want %v", s.ExpiresAt, expires)
	}

	if err := repo.SetStatus(ctx, "u1", "expired"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	s, _ = repo.ByUser(ctx, "u1")
	if s.Status != "expired" || s.Plan != "pro" {
		t.Fatalf("SetStatus touched the wrong fields: %+v", s)
	}
}

func TestSetupRepoUpdateFlags(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSetupRepo(newTestDB(t))

	if err := repo.Upsert(ctx, repository.SetupState{UserID: "u1", ShowOnboarding: true, FirstTimeSetup: true}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// partial patch: nil leaves the other flag alone
	off := false
	if err := repo.UpdateFlags(ctx, "u1", nil, &off); err != nil {
		t.Fatalf("UpdateFlags: %v", err)
	}
	s, err := repo.ByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ByUser: %v", err)
	}
	if !s.ShowOnboarding || s.FirstTimeSetup {
		t.Fatalf("partial patch wrong: %+v", s)
	}

	// repeating the same patch changes nothing
	if err := repo.UpdateFlags(ctx, "u1", nil, &off); err != nil {
		t.Fatalf("repeat UpdateFlags: %v", err)
	}
	s, _ = repo.ByUser(ctx, "u1")
	if !s.ShowOnboarding || s.FirstTimeSetup {
		t.Fatalf("repeated patch changed state: %+v", s)
	}

	// patching a user with no row creates it
	if err := repo.UpdateFlags(ctx, "u2", &off, nil); err != nil {
		t.Fatalf("UpdateFlags insert: %v", err)
	}
	s, err = repo.ByUser(ctx, "u2")
	if err != nil || s == nil {
		t.Fatalf("row not created: %v %v", s, err)
	}
}

func TestProjectRepo(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProjectRepo(newTestDB(t))

	list, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser on empty db: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no projects, got %d", len(list))
	}

	for i, name := range []string{"alpha", "beta"} {
		if err := repo.Create(ctx, repository.Project{ID: name, UserID: "u1", Name: name}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if err := repo.Create(ctx, repository.Project{ID: "other", UserID: "u2", Name: "other"}); err != nil {
		t.Fatalf("Create for other user: %v", err)
	}

	list, err = repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "beta" {
		t.Fatalf("unexpected list: %+v", list)
	}

	n, err := repo.CountByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}
