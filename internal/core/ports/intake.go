package ports

import (
	"context"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

// IntakeInput is the DTO passed from the transport layer to IntakeService.
type IntakeInput struct {
	Kind    domain.IntakeKind
	Name    string
	Email   string
	Phone   string
	Address string
	Needs   []string
	Details map[string]string
}

// ListIntakeFilter carries query parameters for listing submissions.
type ListIntakeFilter struct {
	Kind   domain.IntakeKind   // optional: filter by form kind
	Status domain.IntakeStatus // optional: filter by review status
	Page   int                 // 1-based
	Limit  int                 // capped by the service
}

// ListIntakeResult is returned by List.
type ListIntakeResult struct {
	Items      []*domain.IntakeSubmission `json:"items"`
	Total      int64                      `json:"total"`
	Page       int                        `json:"page"`
	Limit      int                        `json:"limit"`
	TotalPages int                        `json:"total_pages"`
}

// IntakeRepository defines persistence operations for intake submissions.
type IntakeRepository interface {
	Insert(ctx context.Context, sub *domain.IntakeSubmission) (*domain.IntakeSubmission, error)
	FindByID(ctx context.Context, id string) (*domain.IntakeSubmission, error)
	List(ctx context.Context, filter ListIntakeFilter) ([]*domain.IntakeSubmission, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.IntakeStatus) error
}

// IntakeService processes form submissions from the public site.
type IntakeService interface {
	Submit(ctx context.Context, input IntakeInput) (*domain.IntakeSubmission, error)
	List(ctx context.Context, filter ListIntakeFilter) (*ListIntakeResult, error)
	SetStatus(ctx context.Context, id string, status domain.IntakeStatus) error
}
