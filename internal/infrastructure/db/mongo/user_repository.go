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

	"github.com/worktrack/worktrack-api/internal/core/domain"
	"github.com/worktrack/worktrack-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	FullName     string             `bson:"full_name,omitempty"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	Version      int64              `bson:"version"`
	CreatedBy    string             `bson:"created_by,omitempty"`
	UpdatedBy    string             `bson:"updated_by,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		FullName:     mu.FullName,
		Role:         domain.Role(mu.Role),
		Status:       domain.Status(mu.Status),
		Version:      mu.Version,
		CreatedBy:    mu.CreatedBy,
		UpdatedBy:    mu.UpdatedBy,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
}

// Create inserts a new user document at version 1.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Role:         string(user.Role),
		Status:       string(user.Status),
		Version:      1,
		CreatedBy:    user.CreatedBy,
		UpdatedBy:    user.UpdatedBy,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEntity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, activeOnly(bson.M{"_id": oid}))
}

func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, activeOnly(bson.M{"username": username}))
}

// FindByIDIncludingDeleted is the administrative path that does not exclude
// soft-deleted rows.
func (r *UserRepository) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, includingDeleted(bson.M{"_id": oid}))
}

func (r *UserRepository) FindAllActive(ctx context.Context) ([]*domain.User, error) {
	return r.findAll(ctx, activeOnly(bson.M{}))
}

// SearchActive combines the provided filter conditions with AND; blank
// conditions contribute no restriction.
func (r *UserRepository) SearchActive(ctx context.Context, filter ports.UserSearchFilter) ([]*domain.User, error) {
	predicate := NewPredicateBuilder().
		ContainsIgnoreCase("username", filter.Username).
		ContainsIgnoreCase("full_name", filter.FullName).
		Eq("email", filter.Email).
		Eq("role", string(filter.Role)).
		Build()

	return r.findAll(ctx, activeOnly(predicate))
}

// Update writes all mutable fields, matching on id and the expected version
// and incrementing the stored version. A missing match on an existing row
// means a concurrent write won: domain.ErrVersionConflict.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	filter := includingDeleted(bson.M{"_id": oid, "version": user.Version})
	update := bson.M{
		"$set": bson.M{
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"full_name":     user.FullName,
			"role":          string(user.Role),
			"status":        string(user.Status),
			"updated_by":    user.UpdatedBy,
			"updated_at":    user.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.versionConflictOrMissing(ctx, oid)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEntity
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// versionConflictOrMissing disambiguates an unmatched version-guarded write:
// the row either exists at another version (conflict) or is gone entirely.
func (r *UserRepository) versionConflictOrMissing(ctx context.Context, oid primitive.ObjectID) error {
	err := r.col.FindOne(ctx, includingDeleted(bson.M{"_id": oid})).Err()
	if err == nil {
		return domain.ErrVersionConflict
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("check user version: %w", err)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) findAll(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// EnsureIndexes creates the unique indexes backing duplicate detection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
