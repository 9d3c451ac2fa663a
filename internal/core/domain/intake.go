package domain

import (
	"errors"
	"time"
)

// IntakeKind identifies which public form produced a submission.
type IntakeKind string

const (
	IntakeFamilySupport       IntakeKind = "family_support"
	IntakeEmergencyAssistance IntakeKind = "emergency_assistance"
	IntakeVolunteer           IntakeKind = "volunteer"
	IntakeSponsorInquiry      IntakeKind = "sponsor_inquiry"
)

// IntakeStatus is the review lifecycle of a submission.
type IntakeStatus string

const (
	IntakeReceived IntakeStatus = "received"
	IntakeInReview IntakeStatus = "in_review"
	IntakeApproved IntakeStatus = "approved"
	IntakeClosed   IntakeStatus = "closed"
)

var ErrIntakeNotFound = errors.New("intake submission not found")
var ErrInvalidIntake = errors.New("invalid intake submission")

// IntakeSubmission is a single form submission from the public site.
// Fields beyond the shared contact block vary by kind and are kept in the
// free-form Details map, mirroring the per-form field sets.
type IntakeSubmission struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	Kind        IntakeKind        `json:"kind" bson:"kind"`
	Status      IntakeStatus      `json:"status" bson:"status"`
	Name        string            `json:"name" bson:"name"`
	Email       string            `json:"email" bson:"email"`
	Phone       string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     string            `json:"address,omitempty" bson:"address,omitempty"`
	Needs       []string          `json:"needs,omitempty" bson:"needs,omitempty"`
	Details     map[string]string `json:"details,omitempty" bson:"details,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at" bson:"submitted_at"`
}

// Valid reports whether k is a known intake form kind.
func (k IntakeKind) Valid() bool {
	switch k {
	case IntakeFamilySupport, IntakeEmergencyAssistance, IntakeVolunteer, IntakeSponsorInquiry:
		return true
	}
	return false
}
