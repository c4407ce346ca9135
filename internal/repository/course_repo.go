package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursefeedback/internal/model"
)

// CourseFilter narrows course listings. Zero values match everything.
type CourseFilter struct {
	TeacherID  string
	ActiveOnly bool
}

// CourseRepo handles MongoDB operations for courses
type CourseRepo interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	SetActive(ctx context.Context, id string, active bool) error
	CountActive(ctx context.Context) (int, error)
}

type courseRepo struct {
	collection *mongo.Collection
}

// NewCourseRepo creates a new course repository
func NewCourseRepo(db *mongo.Database) CourseRepo {
	return &courseRepo{collection: db.Collection(coursesCollection)}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return insert(ctx, r.collection, course)
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	return findOne[model.Course](ctx, r.collection, bson.M{"_id": id})
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter) ([]*model.Course, error) {
	q := bson.M{}
	if filter.TeacherID != "" {
		q["teacherId"] = filter.TeacherID
	}
	if filter.ActiveOnly {
		q["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[model.Course](ctx, r.collection, q, opts)
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *courseRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": active}})
	return err
}

func (r *courseRepo) CountActive(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"isActive": true})
	return int(n), err
}
