package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursefeedback/internal/model"
)

// FormRepo handles MongoDB operations for feedback forms. Questions are
// embedded in the form document.
type FormRepo interface {
	Create(ctx context.Context, form *model.FeedbackForm) error
	GetByID(ctx context.Context, id string) (*model.FeedbackForm, error)
	ListByCourse(ctx context.Context, courseID string, activeOnly bool) ([]*model.FeedbackForm, error)
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{collection: db.Collection(formsCollection)}
}

func (r *formRepo) Create(ctx context.Context, form *model.FeedbackForm) error {
	return insert(ctx, r.collection, form)
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.FeedbackForm, error) {
	return findOne[model.FeedbackForm](ctx, r.collection, bson.M{"_id": id})
}

func (r *formRepo) ListByCourse(ctx context.Context, courseID string, activeOnly bool) ([]*model.FeedbackForm, error) {
	filter := bson.M{"courseId": courseID}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll[model.FeedbackForm](ctx, r.collection, filter, opts)
}
