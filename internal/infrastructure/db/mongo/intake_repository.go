package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

const intakeCollection = "intake_submissions"

type MongoIntakeRepository struct {
	coll *mongo.Collection
}

func NewIntakeRepository(db *mongo.Database) *MongoIntakeRepository {
	return &MongoIntakeRepository{coll: db.Collection(intakeCollection)}
}

type mongoIntake struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Kind        domain.IntakeKind   `bson:"kind"`
	Status      domain.IntakeStatus `bson:"status"`
	Name        string              `bson:"name"`
	Email       string              `bson:"email"`
	Phone       string              `bson:"phone,omitempty"`
	Address     string              `bson:"address,omitempty"`
	Needs       []string            `bson:"needs,omitempty"`
	Details     map[string]string   `bson:"details,omitempty"`
	SubmittedAt int64               `bson:"submitted_at"`
}

func (r *MongoIntakeRepository) Insert(ctx context.Context, sub *domain.IntakeSubmission) (*domain.IntakeSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := mongoIntake{
		Kind:        sub.Kind,
		Status:      sub.Status,
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Address:     sub.Address,
		Needs:       sub.Needs,
		Details:     sub.Details,
		SubmittedAt: sub.SubmittedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert intake: %w", err)
	}

	created := *sub
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoIntakeRepository) FindByID(ctx context.Context, id string) (*domain.IntakeSubmission, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIntakeNotFound
	}

	var mi mongoIntake
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIntakeNotFound
		}
		return nil, fmt.Errorf("find intake: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *MongoIntakeRepository) List(ctx context.Context, filter ports.ListIntakeFilter) ([]*domain.IntakeSubmission, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Kind != "" {
		query["kind"] = filter.Kind
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count intake: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list intake: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.IntakeSubmission
	for cursor.Next(ctx) {
		var mi mongoIntake
		if err := cursor.Decode(&mi); err != nil {
			return nil, 0, fmt.Errorf("decode intake: %w", err)
		}
		items = append(items, mi.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list intake: %w", err)
	}
	return items, total, nil
}

func (r *MongoIntakeRepository) UpdateStatus(ctx context.Context, id string, status domain.IntakeStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIntakeNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update intake status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIntakeNotFound
	}
	return nil
}

func (mi mongoIntake) toDomain() *domain.IntakeSubmission {
	return &domain.IntakeSubmission{
		ID:          mi.ID.Hex(),
		Kind:        mi.Kind,
		Status:      mi.Status,
		Name:        mi.Name,
		Email:       mi.Email,
		Phone:       mi.Phone,
		Address:     mi.Address,
		Needs:       mi.Needs,
		Details:     mi.Details,
		SubmittedAt: time.Unix(mi.SubmittedAt, 0).UTC(),
	}
}
