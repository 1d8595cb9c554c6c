package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/jaskdesk/internal/database/repository"
	"github.com/jask/jaskdesk/internal/nav"
)

// BillingService reads and mutates subscriptions. It implements
// nav.SubscriptionStore for routing and backs the billing screen's
// renew/expire actions.
type BillingService struct {
	Subscriptions *repository.SubscriptionRepo
}

// SubscriptionByUser implements nav.SubscriptionStore. A missing row is
// (nil, nil) so the resolver can substitute defaults.
func (s *BillingService) SubscriptionByUser(ctx context.Context, userID string) (*nav.SubscriptionRecord, error) {
	row, err := s.Subscriptions.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read subscription: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return &nav.SubscriptionRecord{
		Plan:      nav.Plan(row.Plan),
		Status:    nav.SubscriptionStatus(row.Status),
		Trial:     row.IsTrial,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Renew reactivates the subscription on the pro plan for a year.
func (s *BillingService) Renew(ctx context.Context, userID string) error {
	expires := time.Now().UTC().Add(365 * 24 * time.Hour)
	err := s.Subscriptions.Upsert(ctx, repository.Subscription{
		UserID:    userID,
		Plan:      string(nav.PlanPro),
		Status:    string(nav.StatusActive),
		IsTrial:   false,
		ExpiresAt: &expires,
	})
	if err != nil {
		return fmt.Errorf("renew subscription: %w", err)
	}
	return nil
}

// Expire marks the subscription expired. Surfaced in the TUI as a demo
// action to exercise the lapsed-subscription routing rules.
func (s *BillingService) Expire(ctx context.Context, userID string) error {
	row, err := s.Subscriptions.ByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("expire subscription: %w", err)
	}
	if row == nil {
		return fmt.Errorf("expire subscription: no subscription for user")
	}
	row.IsTrial = false
	row.Status = string(nav.StatusExpired)
	if err := s.Subscriptions.Upsert(ctx, *row); err != nil {
		return fmt.Errorf("expire subscription: %w", err)
	}
	return nil
}
