package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/samaraworks/portal-api/internal/core/domain"
)

const profileCollection = "profiles"

// MongoProfileRepository persists one profile row per identity. The identity
// id is the document _id, so concurrent first-login inserts for the same
// identity collide on the primary key and converge to a single row.
type MongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{coll: db.Collection(profileCollection)}
}

type mongoProfile struct {
	ID          string      `bson:"_id"`
	Email       string      `bson:"email,omitempty"`
	DisplayName string      `bson:"display_name,omitempty"`
	Role        domain.Role `bson:"role"`
	HouseholdID string      `bson:"household_id,omitempty"`
	CreatedAt   int64       `bson:"created_at"`
	UpdatedAt   int64       `bson:"updated_at"`
}

func (r *MongoProfileRepository) FetchByIdentity(ctx context.Context, identityID string) (*domain.Profile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"_id": identityID}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoProfileRepository) Insert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	doc := mongoProfile{
		ID:          profile.IdentityID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Role:        profile.Role,
		HouseholdID: profile.HouseholdID,
		CreatedAt:   profile.CreatedAt.Unix(),
		UpdatedAt:   profile.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (mp mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		IdentityID:  mp.ID,
		Email:       mp.Email,
		DisplayName: mp.DisplayName,
		Role:        mp.Role,
		HouseholdID: mp.HouseholdID,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}
}
