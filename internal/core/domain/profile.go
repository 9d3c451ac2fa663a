package domain

import "time"

// Profile is the durable backend record mapping an identity to a role and
// display attributes. Exactly one profile exists per identity id.
type Profile struct {
	IdentityID  string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Role        Role      `json:"role" bson:"role"`
	HouseholdID string    `json:"household_id,omitempty" bson:"household_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// ApplicationUser is the ephemeral, display-ready projection of a Profile
// plus session liveness. It exists only while a session is resolved and is
// never persisted.
type ApplicationUser struct {
	IdentityID  string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	HouseholdID string `json:"household_id,omitempty"`
}

// Project derives the ApplicationUser view of a profile. The session email
// fills in when the profile row carries none.
func (p *Profile) Project(sessionEmail string) *ApplicationUser {
	email := p.Email
	if email == "" {
		email = sessionEmail
	}
	return &ApplicationUser{
		IdentityID:  p.IdentityID,
		Email:       email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		HouseholdID: p.HouseholdID,
	}
}
