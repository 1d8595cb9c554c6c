package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/jaskdesk/internal/database/repository"
	"github.com/jask/jaskdesk/internal/nav"
)

// SetupService reads and patches setup progress. It implements
// nav.SetupStore (the onMatch side-effect target) and backs the setup
// screen's first-project flow.
type SetupService struct {
	Setup    *repository.SetupRepo
	Projects *repository.ProjectRepo
}

// SetupByUser implements nav.SetupStore. A missing row is (nil, nil).
func (s *SetupService) SetupByUser(ctx context.Context, userID string) (*nav.SetupRecord, error) {
	row, err := s.Setup.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read setup: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return &nav.SetupRecord{
		ShowOnboarding: row.ShowOnboarding,
		FirstTimeSetup: row.FirstTimeSetup,
	}, nil
}

// UpdateSetup implements nav.SetupStore. The repo applies absolute
// values, so a repeated patch cannot corrupt state.
func (s *SetupService) UpdateSetup(ctx context.Context, userID string, patch nav.SetupPatch) error {
	if err := s.Setup.UpdateFlags(ctx, userID, patch.ShowOnboarding, patch.FirstTimeSetup); err != nil {
		return fmt.Errorf("update setup: %w", err)
	}
	return nil
}

// CompleteSetup creates the user's first project and clears the
// first-time-setup flag. Onboarding stays pending; the onboarding rule
// clears it when the workspace first renders.
func (s *SetupService) CompleteSetup(ctx context.Context, userID, projectName string) error {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return fmt.Errorf("complete setup: project name is required")
	}
	project := repository.Project{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   projectName,
	}
	if err := s.Projects.Create(ctx, project); err != nil {
		return fmt.Errorf("complete setup: create project: %w", err)
	}
	off := false
	if err := s.Setup.UpdateFlags(ctx, userID, nil, &off); err != nil {
		return fmt.Errorf("complete setup: clear flag: %w", err)
	}
	return nil
}

// CreateProject adds a project for an established user.
func (s *SetupService) CreateProject(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("create project: name is required")
	}
	project := repository.Project{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := s.Projects.Create(ctx, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}
