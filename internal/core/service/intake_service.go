package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/api/metrics"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

const (
	defaultIntakeLimit = 20
	maxIntakeLimit     = 100
)

type intakeService struct {
	repo ports.IntakeRepository
	log  zerolog.Logger
}

// NewIntakeService returns an IntakeService implementation.
func NewIntakeService(repo ports.IntakeRepository, log zerolog.Logger) ports.IntakeService {
	return &intakeService{repo: repo, log: log}
}

// Submit validates and persists a form submission.
func (s *intakeService) Submit(ctx context.Context, input ports.IntakeInput) (*domain.IntakeSubmission, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown form kind %q", domain.ErrInvalidIntake, input.Kind)
	}
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidIntake)
	}

	sub := &domain.IntakeSubmission{
		Kind:        input.Kind,
		Status:      domain.IntakeReceived,
		Name:        name,
		Email:       email,
		Phone:       strings.TrimSpace(input.Phone),
		Address:     strings.TrimSpace(input.Address),
		Needs:       input.Needs,
		Details:     input.Details,
		SubmittedAt: time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("submit intake: %w", err)
	}

	metrics.IntakeSubmissionsTotal.WithLabelValues(string(created.Kind)).Inc()
	s.log.Info().
		Str("kind", string(created.Kind)).
		Str("id", created.ID).
		Msg("intake submission recorded")

	return created, nil
}

// List returns a page of submissions for the staff/admin portals.
func (s *intakeService) List(ctx context.Context, filter ports.ListIntakeFilter) (*ports.ListIntakeResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultIntakeLimit
	}
	if filter.Limit > maxIntakeLimit {
		filter.Limit = maxIntakeLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list intake: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListIntakeResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// SetStatus moves a submission through its review lifecycle.
func (s *intakeService) SetStatus(ctx context.Context, id string, status domain.IntakeStatus) error {
	switch status {
	case domain.IntakeReceived, domain.IntakeInReview, domain.IntakeApproved, domain.IntakeClosed:
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidIntake, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set intake status: %w", err)
	}
	return nil
}
