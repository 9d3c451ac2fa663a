package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

type stubIntakeRepo struct {
	subs       []*domain.IntakeSubmission
	insertErr  error
	listErr    error
	updateErr  error
	lastFilter ports.ListIntakeFilter
}

func (r *stubIntakeRepo) Insert(_ context.Context, sub *domain.IntakeSubmission) (*domain.IntakeSubmission, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	clone := *sub
	clone.ID = "intake-" + strconv.Itoa(len(r.subs)+1)
	r.subs = append(r.subs, &clone)
	return &clone, nil
}

func (r *stubIntakeRepo) FindByID(_ context.Context, id string) (*domain.IntakeSubmission, error) {
	for _, s := range r.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrIntakeNotFound
}

func (r *stubIntakeRepo) List(_ context.Context, filter ports.ListIntakeFilter) ([]*domain.IntakeSubmission, int64, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.subs, int64(len(r.subs)), nil
}

func (r *stubIntakeRepo) UpdateStatus(_ context.Context, id string, status domain.IntakeStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for _, s := range r.subs {
		if s.ID == id {
			s.Status = status
			return nil
		}
	}
	return domain.ErrIntakeNotFound
}

func validInput() ports.IntakeInput {
	return ports.IntakeInput{
		Kind:  domain.IntakeFamilySupport,
		Name:  "  Maria Lopez  ",
		Email: " maria@example.org ",
		Phone: "555-0101",
		Needs: []string{"rental_assistance"},
	}
}

func TestSubmitRecordsSubmission(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewIntakeService(repo, zerolog.Nop())

	created, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if created.ID == "" {
		t.Error("submission has no id")
	}
	if created.Status != domain.IntakeReceived {
		t.Errorf("status = %s, want %s", created.Status, domain.IntakeReceived)
	}
	if created.Name != "Maria Lopez" || created.Email != "maria@example.org" {
		t.Errorf("contact fields not trimmed: %q / %q", created.Name, created.Email)
	}
	if created.SubmittedAt.IsZero() {
		t.Error("SubmittedAt not set")
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewIntakeService(repo, zerolog.Nop())

	tests := []struct {
		name   string
		mutate func(*ports.IntakeInput)
	}{
		{"unknown kind", func(in *ports.IntakeInput) { in.Kind = "adoption" }},
		{"blank name", func(in *ports.IntakeInput) { in.Name = "   " }},
		{"blank email", func(in *ports.IntakeInput) { in.Email = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.Submit(context.Background(), in); !errors.Is(err, domain.ErrInvalidIntake) {
				t.Errorf("Submit() error = %v, want ErrInvalidIntake", err)
			}
		})
	}
	if len(repo.subs) != 0 {
		t.Errorf("%d submissions persisted for invalid input", len(repo.subs))
	}
}

func TestListClampsPagination(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewIntakeService(repo, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListIntakeFilter{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Page != 1 {
		t.Errorf("page = %d, want 1", result.Page)
	}
	if result.Limit != maxIntakeLimit {
		t.Errorf("limit = %d, want %d", result.Limit, maxIntakeLimit)
	}
	if repo.lastFilter.Limit != maxIntakeLimit {
		t.Errorf("repo saw limit %d, want %d", repo.lastFilter.Limit, maxIntakeLimit)
	}
}

func TestListComputesTotalPages(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewIntakeService(repo, zerolog.Nop())
	for i := 0; i < 5; i++ {
		if _, err := svc.Submit(context.Background(), validInput()); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	result, err := svc.List(context.Background(), ports.ListIntakeFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if result.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", result.TotalPages)
	}
}

func TestSetStatus(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewIntakeService(repo, zerolog.Nop())
	created, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.SetStatus(context.Background(), created.ID, domain.IntakeInReview); err != nil {
		t.Fatalf("SetStatus() error: %v", err)
	}
	got, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got.Status != domain.IntakeInReview {
		t.Errorf("status = %s, want %s", got.Status, domain.IntakeInReview)
	}

	if err := svc.SetStatus(context.Background(), created.ID, "archived"); !errors.Is(err, domain.ErrInvalidIntake) {
		t.Errorf("SetStatus(archived) error = %v, want ErrInvalidIntake", err)
	}
	if err := svc.SetStatus(context.Background(), "missing", domain.IntakeClosed); !errors.Is(err, domain.ErrIntakeNotFound) {
		t.Errorf("SetStatus(missing) error = %v, want ErrIntakeNotFound", err)
	}
}
