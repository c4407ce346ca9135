package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"coursefeedback/internal/cache"
	"coursefeedback/internal/config"
	"coursefeedback/internal/events"
	"coursefeedback/internal/logging"
	"coursefeedback/internal/model"
	"coursefeedback/internal/repository"
	"coursefeedback/internal/service"
)

type seedUser struct {
	req  model.CreateUserRequest
	user *model.User
}

var sampleTexts = []string{
	"The course is excellent! Professor Smith explains concepts very clearly and the assignments are challenging but fair.",
	"Good course overall but sometimes the pace is too fast. More examples would be helpful.",
	"The teaching is okay but I think the course could benefit from more practical examples.",
	"Absolutely love this course! The professor is amazing and very helpful during office hours.",
	"The course material is outdated. Needs more modern examples and better organization.",
}

var sampleRatings = []float64{5, 3, 3, 5, 2}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New("course-feedback-seed", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("connect mongo", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()

	if err := seed(ctx, cfg, db, rdb, logger); err != nil {
		if errors.Is(err, service.ErrConflict) {
			logger.Info("database already seeded")
			return
		}
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete", zap.String("database", cfg.MongoDatabase))
}

func seed(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, logger *zap.Logger) error {
	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	materials := repository.NewMaterialRepo(db)
	forms := repository.NewFormRepo(db)
	responses := repository.NewResponseRepo(db)

	userSvc := service.NewUserService(users)
	courseSvc := service.NewCourseService(courses, enrollments, materials, forms, users)
	formSvc := service.NewFormService(forms, courses, responses, cache.NewAnalyticsCache(rdb, cfg.AnalyticsCacheTTL), events.Noop{}, logger)

	people := []*seedUser{
		{req: model.CreateUserRequest{Username: cfg.AdminUsername, Email: cfg.AdminEmail, Password: cfg.AdminPassword, Role: model.RoleAdmin, FullName: "System Administrator", Department: "Administration"}},
		{req: model.CreateUserRequest{Username: "prof_smith", Email: "smith@university.edu", Password: "teacher123", Role: model.RoleTeacher, FullName: "Dr. John Smith", Department: "Computer Science"}},
		{req: model.CreateUserRequest{Username: "prof_jones", Email: "jones@university.edu", Password: "teacher123", Role: model.RoleTeacher, FullName: "Prof. Sarah Jones", Department: "Mathematics"}},
		{req: model.CreateUserRequest{Username: "student1", Email: "alice@student.edu", Password: "student123", Role: model.RoleStudent, FullName: "Alice Johnson", Department: "Computer Science"}},
		{req: model.CreateUserRequest{Username: "student2", Email: "bob@student.edu", Password: "student123", Role: model.RoleStudent, FullName: "Bob Williams", Department: "Computer Science"}},
	}
	for _, p := range people {
		u, err := userSvc.Create(ctx, p.req)
		if err != nil {
			return fmt.Errorf("user %s: %w", p.req.Username, err)
		}
		p.user = u
	}
	admin, smith, jones, alice, bob := actorOf(people[0]), actorOf(people[1]), actorOf(people[2]), actorOf(people[3]), actorOf(people[4])

	byCode := make(map[string]*model.Course)
	for _, req := range []model.CourseRequest{
		{Title: "Introduction to Machine Learning", Description: "Learn ML fundamentals", Code: "CS501", TeacherID: smith.UserID, Semester: "Fall", Year: 2024, Department: "Computer Science"},
		{Title: "Data Structures & Algorithms", Description: "Advanced DS concepts", Code: "CS302", TeacherID: smith.UserID, Semester: "Fall", Year: 2024, Department: "Computer Science"},
		{Title: "Calculus III", Description: "Multivariable calculus", Code: "MATH301", TeacherID: jones.UserID, Semester: "Fall", Year: 2024, Department: "Mathematics"},
	} {
		c, err := courseSvc.Create(ctx, admin, req)
		if err != nil {
			return fmt.Errorf("course %s: %w", req.Code, err)
		}
		byCode[c.Code] = c
	}

	for _, e := range []struct {
		student service.Actor
		code    string
	}{
		{alice, "CS501"}, {alice, "CS302"}, {bob, "CS501"}, {bob, "MATH301"},
	} {
		if err := courseSvc.Enroll(ctx, e.student, byCode[e.code].ID); err != nil {
			return fmt.Errorf("enroll %s in %s: %w", e.student.Username, e.code, err)
		}
	}

	for _, m := range []struct {
		code string
		item model.Material
	}{
		{"CS501", model.Material{Title: "Introduction to ML - Lecture 1", Type: "video", URL: "https://www.youtube.com/embed/ukzFI9rgwfU", Description: "Overview of machine learning concepts"}},
		{"CS501", model.Material{Title: "ML Fundamentals PDF", Type: "document", Description: "Core ML concepts document"}},
		{"CS302", model.Material{Title: "Data Structures Overview", Type: "video", URL: "https://www.youtube.com/embed/RBSGKlAvoiM", Description: "Introduction to data structures"}},
	} {
		if _, err := courseSvc.AddMaterial(ctx, smith, byCode[m.code].ID, m.item); err != nil {
			return fmt.Errorf("material %q: %w", m.item.Title, err)
		}
	}

	optional := false
	form, err := formSvc.Create(ctx, smith, byCode["CS501"].ID, model.CreateFormRequest{
		Title:       "Mid-Semester Feedback",
		Description: "Please share your experience with this course",
		Questions: []model.QuestionInput{
			{Text: "How would you rate the overall course quality?", Type: model.QuestionRating},
			{Text: "How engaging are the lectures?", Type: model.QuestionScale},
			{Text: "Is the course material well-organized?", Type: model.QuestionYesNo},
			{Text: "What is the most valuable aspect of this course?", Type: model.QuestionMultipleChoice, Options: []string{"Practical assignments", "Theoretical knowledge", "Teaching style", "Course materials"}, Required: &optional},
			{Text: "Please provide any additional comments or suggestions:", Type: model.QuestionText, Required: &optional},
		},
	})
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}

	q := form.Questions
	for i := range sampleTexts {
		student := alice
		if i%2 == 1 {
			student = bob
		}
		anonymous := i%2 == 1
		rating := sampleRatings[i]
		engagement := float64(6 + i%4)
		organized := 1.0
		if rating < 3 {
			organized = 0
		}
		_, err := formSvc.Submit(ctx, student, form.ID, model.SubmitRequest{
			IsAnonymous: &anonymous,
			Answers: []model.AnswerInput{
				{QuestionID: q[0].ID, Value: &rating},
				{QuestionID: q[1].ID, Value: &engagement},
				{QuestionID: q[2].ID, Value: &organized},
				{QuestionID: q[4].ID, Text: &sampleTexts[i]},
			},
		})
		if err != nil {
			return fmt.Errorf("response %d: %w", i+1, err)
		}
	}
	return nil
}

func actorOf(p *seedUser) service.Actor {
	return service.Actor{UserID: p.user.ID, Role: p.user.Role, Username: p.user.Username}
}
