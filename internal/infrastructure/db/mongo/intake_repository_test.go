package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

func TestFindByIDRejectsMalformedID(t *testing.T) {
	repo := &MongoIntakeRepository{}

	_, err := repo.FindByID(context.Background(), "not-a-hex-id")
	if !errors.Is(err, domain.ErrIntakeNotFound) {
		t.Fatalf("FindByID() error = %v, want ErrIntakeNotFound", err)
	}
}

func TestUpdateStatusRejectsMalformedID(t *testing.T) {
	repo := &MongoIntakeRepository{}

	err := repo.UpdateStatus(context.Background(), "not-a-hex-id", domain.IntakeInReview)
	if !errors.Is(err, domain.ErrIntakeNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want ErrIntakeNotFound", err)
	}
}

func TestMongoIntakeToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	submitted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	mi := mongoIntake{
		ID:          oid,
		Kind:        domain.IntakeFamilySupport,
		Status:      domain.IntakeReceived,
		Name:        "Amina Diallo",
		Email:       "amina@example.org",
		Phone:       "614-555-0101",
		Address:     "12 Maple St",
		Needs:       []string{"housing"},
		Details:     map[string]string{"household_size": "4"},
		SubmittedAt: submitted.Unix(),
	}

	sub := mi.toDomain()
	if sub.ID != oid.Hex() {
		t.Errorf("ID = %s, want %s", sub.ID, oid.Hex())
	}
	if sub.Kind != domain.IntakeFamilySupport || sub.Status != domain.IntakeReceived {
		t.Errorf("kind/status = %s/%s", sub.Kind, sub.Status)
	}
	if !sub.SubmittedAt.Equal(submitted) {
		t.Errorf("SubmittedAt = %v, want %v", sub.SubmittedAt, submitted)
	}
	if sub.Details["household_size"] != "4" {
		t.Errorf("details = %v", sub.Details)
	}
}
