package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"coursefeedback/internal/model"
)

// EnrollmentRepo handles MongoDB operations for enrollments
type EnrollmentRepo interface {
	// Create returns ErrDuplicate when the student is already enrolled
	Create(ctx context.Context, e *model.Enrollment) error
	CourseIDsByStudent(ctx context.Context, studentID string) (map[string]bool, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
	CountsByCourse(ctx context.Context) (map[string]int, error)
	Count(ctx context.Context) (int, error)
}

type enrollmentRepo struct {
	collection *mongo.Collection
}

// NewEnrollmentRepo creates a new enrollment repository
func NewEnrollmentRepo(db *mongo.Database) EnrollmentRepo {
	return &enrollmentRepo{collection: db.Collection(enrollmentsCollection)}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	return insert(ctx, r.collection, e)
}

func (r *enrollmentRepo) CourseIDsByStudent(ctx context.Context, studentID string) (map[string]bool, error) {
	rows, err := findAll[model.Enrollment](ctx, r.collection, bson.M{"studentId": studentID})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, e := range rows {
		out[e.CourseID] = true
	}
	return out, nil
}

func (r *enrollmentRepo) CountByCourse(ctx context.Context, courseID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"courseId": courseID})
	return int(n), err
}

func (r *enrollmentRepo) CountsByCourse(ctx context.Context) (map[string]int, error) {
	return countBy(ctx, r.collection, bson.M{}, "courseId")
}

func (r *enrollmentRepo) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return int(n), err
}
