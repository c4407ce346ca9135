package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursefeedback/internal/model"
)

// MaterialRepo handles MongoDB operations for course materials
type MaterialRepo interface {
	Create(ctx context.Context, m *model.Material) error
	GetByID(ctx context.Context, id string) (*model.Material, error)
	ListByCourse(ctx context.Context, courseID string) ([]*model.Material, error)
	Delete(ctx context.Context, id string) error
}

type materialRepo struct {
	collection *mongo.Collection
}

// NewMaterialRepo creates a new material repository
func NewMaterialRepo(db *mongo.Database) MaterialRepo {
	return &materialRepo{collection: db.Collection(materialsCollection)}
}

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return insert(ctx, r.collection, m)
}

func (r *materialRepo) GetByID(ctx context.Context, id string) (*model.Material, error) {
	return findOne[model.Material](ctx, r.collection, bson.M{"_id": id})
}

func (r *materialRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.Material, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[model.Material](ctx, r.collection, bson.M{"courseId": courseID}, opts)
}

func (r *materialRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
