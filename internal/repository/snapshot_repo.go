package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursefeedback/internal/model"
)

// SnapshotRepo stores the latest analytics run per course and analysis type
type SnapshotRepo interface {
	Save(ctx context.Context, snapshot *model.AnalyticsSnapshot) error
	GetLatest(ctx context.Context, courseID, analysisType string) (*model.AnalyticsSnapshot, error)
}

type snapshotRepo struct {
	collection *mongo.Collection
}

// NewSnapshotRepo creates a new snapshot repository
func NewSnapshotRepo(db *mongo.Database) SnapshotRepo {
	return &snapshotRepo{collection: db.Collection(snapshotsCollection)}
}

func (r *snapshotRepo) Save(ctx context.Context, snapshot *model.AnalyticsSnapshot) error {
	filter := bson.M{"courseId": snapshot.CourseID, "analysisType": snapshot.AnalysisType}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, snapshot, opts)
	return err
}

func (r *snapshotRepo) GetLatest(ctx context.Context, courseID, analysisType string) (*model.AnalyticsSnapshot, error) {
	return findOne[model.AnalyticsSnapshot](ctx, r.collection, bson.M{"courseId": courseID, "analysisType": analysisType})
}
