package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursefeedback/internal/model"
)

// ResponseRepo handles MongoDB operations for feedback responses. Each
// response carries its course ID so analytics never join through forms.
type ResponseRepo interface {
	Create(ctx context.Context, resp *model.FeedbackResponse) error
	// ListByCourse returns responses in submission order
	ListByCourse(ctx context.Context, courseID string) ([]*model.FeedbackResponse, error)
	ListAll(ctx context.Context) ([]*model.FeedbackResponse, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
	CountsByCourse(ctx context.Context) (map[string]int, error)
	Count(ctx context.Context) (int, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{collection: db.Collection(responsesCollection)}
}

func (r *responseRepo) Create(ctx context.Context, resp *model.FeedbackResponse) error {
	return insert(ctx, r.collection, resp)
}

func (r *responseRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.FeedbackResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[model.FeedbackResponse](ctx, r.collection, bson.M{"courseId": courseID}, opts)
}

func (r *responseRepo) ListAll(ctx context.Context) ([]*model.FeedbackResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	return findAll[model.FeedbackResponse](ctx, r.collection, bson.M{}, opts)
}

func (r *responseRepo) CountByCourse(ctx context.Context, courseID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"courseId": courseID})
	return int(n), err
}

func (r *responseRepo) CountsByCourse(ctx context.Context) (map[string]int, error) {
	return countBy(ctx, r.collection, bson.M{}, "courseId")
}

func (r *responseRepo) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return int(n), err
}
