package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/infrastructure/identity"
)

const accountCollection = "accounts"

type MongoAccountRepository struct {
	coll *mongo.Collection
}

// NewAccountRepository creates the repository and ensures the unique email
// index that backs duplicate-account detection.
func NewAccountRepository(ctx context.Context, db *mongo.Database) (*MongoAccountRepository, error) {
	coll := db.Collection(accountCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("account index: %w", err)
	}
	return &MongoAccountRepository{coll: coll}, nil
}

type mongoAccount struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	DisplayName  string `bson:"display_name,omitempty"`
	PasswordHash string `bson:"password_hash,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	doc := mongoAccount{
		ID:           account.ID,
		Email:        account.Email,
		DisplayName:  account.DisplayName,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &identity.Account{
		ID:           ma.ID,
		Email:        ma.Email,
		DisplayName:  ma.DisplayName,
		PasswordHash: ma.PasswordHash,
		CreatedAt:    unixToTime(ma.CreatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
