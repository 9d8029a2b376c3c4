package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/observability/metrics"
	"github.com/AlibekovAA/user-profile/internal/user/domain"
)

const usersCollection = "users"

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Phone        string    `bson:"phone"`
	DOB          time.Time `bson:"dob"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toDocument(u domain.User) userDocument {
	return userDocument{
		ID:           string(u.ID),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		DOB:          u.DOB,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:           domain.ID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        d.Phone,
		DOB:          d.DOB.UTC(),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes the store relies on for conflict
// detection. Index names match the postgres constraint names.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.MongoIndexTimeout)
	defer cancel()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(usernameConstraint),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailConstraint),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, toDocument(user))
	observeMongo("create_user", start, err)

	if err != nil {
		if conflict := duplicateKeyConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_id", bson.M{"_id": string(id)})
}

func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_username", bson.M{"username": username})
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_email", bson.M{"email": strings.ToLower(email)})
}

// FindByUsernameOrEmail prefers an exact username match over an email match.
// At most two documents can match, one per unique index.
func (r *MongoRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error) {
	start := time.Now()
	filter := bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": strings.ToLower(identifier)},
	}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(2))
	if err != nil {
		observeMongo("find_user_by_login", start, err)
		return domain.User{}, fmt.Errorf("failed to find user by username or email: %w", err)
	}

	var docs []userDocument
	err = cursor.All(ctx, &docs)
	observeMongo("find_user_by_login", start, err)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to decode users: %w", err)
	}

	if len(docs) == 0 {
		return domain.User{}, ErrUserNotFound
	}
	for _, d := range docs {
		if d.Username == identifier {
			return d.toDomain(), nil
		}
	}
	return docs[0].toDomain(), nil
}

func (r *MongoRepository) UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error) {
	start := time.Now()
	res := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{
			"email":      update.Email,
			"phone":      update.Phone,
			"dob":        update.DOB,
			"updated_at": update.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc userDocument
	err := res.Decode(&doc)
	observeMongo("update_user_profile", start, err)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrUserNotFound
		}
		if conflict := duplicateKeyConflict(err); conflict != nil {
			return domain.User{}, conflict
		}
		return domain.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoRepository) findOne(ctx context.Context, operation string, filter bson.M) (domain.User, error) {
	start := time.Now()

	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	observeMongo(operation, start, err)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to %s: %w", strings.ReplaceAll(operation, "_", " "), err)
	}
	return doc.toDomain(), nil
}

// duplicateKeyConflict maps a duplicate key error to the conflict for the
// index named in the server message.
func duplicateKeyConflict(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, emailConstraint):
		return ErrEmailAlreadyExists
	case strings.Contains(msg, usernameConstraint):
		return ErrUsernameAlreadyExists
	default:
		return nil
	}
}

func observeMongo(operation string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, mongo.ErrNoDocuments):
		result = "not_found"
	case mongo.IsDuplicateKeyError(err):
		result = "conflict"
	default:
		result = "error"
		kind := "server"
		if mongo.IsTimeout(err) {
			kind = "timeout"
		} else if mongo.IsNetworkError(err) {
			kind = "network"
		}
		metrics.StoreOperationErrors.WithLabelValues(metrics.StoreMongo, operation, kind).Inc()
	}
	metrics.StoreOperationDurationSeconds.WithLabelValues(metrics.StoreMongo, operation, result).Observe(time.Since(start).Seconds())
}

var _ Repository = (*MongoRepository)(nil)
