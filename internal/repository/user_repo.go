package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursefeedback/internal/model"
)

// UserRepo handles MongoDB operations for users
type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	ListActiveByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetActive(ctx context.Context, id string, active bool) error
	// CountActive counts active users, optionally restricted to one role
	CountActive(ctx context.Context, role model.Role) (int, error)
}

type userRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{collection: db.Collection(usersCollection)}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return insert(ctx, r.collection, user)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, r.collection, bson.M{"_id": id})
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return findOne[model.User](ctx, r.collection, bson.M{"username": username})
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[model.User](ctx, r.collection, bson.M{}, opts)
}

func (r *userRepo) ListActiveByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	return findAll[model.User](ctx, r.collection, bson.M{"role": role, "isActive": true}, opts)
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": active}})
	return err
}

func (r *userRepo) CountActive(ctx context.Context, role model.Role) (int, error) {
	filter := bson.M{"isActive": true}
	if role != "" {
		filter["role"] = role
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	return int(n), err
}
