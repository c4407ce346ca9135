// Package fakes holds in-memory repositories, caches and sinks for tests.
package fakes

import (
	"context"
	"sort"
	"sync"

	"coursefeedback/internal/model"
	"coursefeedback/internal/repository"
)

// Users is an in-memory repository.UserRepo
type Users struct {
	mu   sync.Mutex
	ByID map[string]*model.User
}

func NewUsers(users ...*model.User) *Users {
	f := &Users{ByID: map[string]*model.User{}}
	for _, u := range users {
		f.ByID[u.ID] = u
	}
	return f
}

func (f *Users) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.ByID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	f.ByID[u.ID] = u
	return nil
}

func (f *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ByID[id], nil
}

func (f *Users) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.ByID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *Users) List(context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.User{}
	for _, u := range f.ByID {
		out = append(out, u)
	}
	return out, nil
}

func (f *Users) ListActiveByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.User{}
	for _, u := range f.ByID {
		if u.IsActive && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *Users) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ByID[u.ID] = u
	return nil
}

func (f *Users) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.ByID[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (f *Users) CountActive(_ context.Context, role model.Role) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.ByID {
		if u.IsActive && (role == "" || u.Role == role) {
			n++
		}
	}
	return n, nil
}

// Courses is an in-memory repository.CourseRepo; List keeps insertion order
type Courses struct {
	ByID  map[string]*model.Course
	order []string
}

func NewCourses(courses ...*model.Course) *Courses {
	f := &Courses{ByID: map[string]*model.Course{}}
	for _, c := range courses {
		f.ByID[c.ID] = c
		f.order = append(f.order, c.ID)
	}
	return f
}

func (f *Courses) Create(_ context.Context, c *model.Course) error {
	for _, existing := range f.ByID {
		if existing.Code == c.Code {
			return repository.ErrDuplicate
		}
	}
	f.ByID[c.ID] = c
	f.order = append(f.order, c.ID)
	return nil
}

func (f *Courses) GetByID(_ context.Context, id string) (*model.Course, error) {
	return f.ByID[id], nil
}

func (f *Courses) List(_ context.Context, filter repository.CourseFilter) ([]*model.Course, error) {
	out := []*model.Course{}
	for _, id := range f.order {
		c := f.ByID[id]
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *Courses) Update(_ context.Context, c *model.Course) error {
	f.ByID[c.ID] = c
	return nil
}

func (f *Courses) SetActive(_ context.Context, id string, active bool) error {
	if c, ok := f.ByID[id]; ok {
		c.IsActive = active
	}
	return nil
}

func (f *Courses) CountActive(context.Context) (int, error) {
	n := 0
	for _, c := range f.ByID {
		if c.IsActive {
			n++
		}
	}
	return n, nil
}

type Enrollments struct {
	Items []*model.Enrollment
}

func (f *Enrollments) Create(_ context.Context, e *model.Enrollment) error {
	for _, existing := range f.Items {
		if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID {
			return repository.ErrDuplicate
		}
	}
	f.Items = append(f.Items, e)
	return nil
}

func (f *Enrollments) CourseIDsByStudent(_ context.Context, studentID string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, e := range f.Items {
		if e.StudentID == studentID {
			out[e.CourseID] = true
		}
	}
	return out, nil
}

func (f *Enrollments) CountByCourse(_ context.Context, courseID string) (int, error) {
	n := 0
	for _, e := range f.Items {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (f *Enrollments) CountsByCourse(context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, e := range f.Items {
		out[e.CourseID]++
	}
	return out, nil
}

func (f *Enrollments) Count(context.Context) (int, error) {
	return len(f.Items), nil
}

type Materials struct {
	ByID map[string]*model.Material
}

func NewMaterials() *Materials {
	return &Materials{ByID: map[string]*model.Material{}}
}

func (f *Materials) Create(_ context.Context, m *model.Material) error {
	f.ByID[m.ID] = m
	return nil
}

func (f *Materials) GetByID(_ context.Context, id string) (*model.Material, error) {
	return f.ByID[id], nil
}

func (f *Materials) ListByCourse(_ context.Context, courseID string) ([]*model.Material, error) {
	out := []*model.Material{}
	for _, m := range f.ByID {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *Materials) Delete(_ context.Context, id string) error {
	delete(f.ByID, id)
	return nil
}

type Forms struct {
	ByID map[string]*model.FeedbackForm
}

func NewForms(forms ...*model.FeedbackForm) *Forms {
	f := &Forms{ByID: map[string]*model.FeedbackForm{}}
	for _, form := range forms {
		f.ByID[form.ID] = form
	}
	return f
}

func (f *Forms) Create(_ context.Context, form *model.FeedbackForm) error {
	f.ByID[form.ID] = form
	return nil
}

func (f *Forms) GetByID(_ context.Context, id string) (*model.FeedbackForm, error) {
	return f.ByID[id], nil
}

func (f *Forms) ListByCourse(_ context.Context, courseID string, activeOnly bool) ([]*model.FeedbackForm, error) {
	out := []*model.FeedbackForm{}
	for _, form := range f.ByID {
		if form.CourseID == courseID && (!activeOnly || form.IsActive) {
			out = append(out, form)
		}
	}
	return out, nil
}

// Responses is an in-memory repository.ResponseRepo
type Responses struct {
	mu    sync.Mutex
	Items []*model.FeedbackResponse
}

func (f *Responses) Create(_ context.Context, r *model.FeedbackResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Items = append(f.Items, r)
	return nil
}

func (f *Responses) ListByCourse(_ context.Context, courseID string) ([]*model.FeedbackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.FeedbackResponse{}
	for _, r := range f.Items {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (f *Responses) ListAll(context.Context) ([]*model.FeedbackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.FeedbackResponse{}, f.Items...), nil
}

func (f *Responses) CountByCourse(ctx context.Context, courseID string) (int, error) {
	items, _ := f.ListByCourse(ctx, courseID)
	return len(items), nil
}

func (f *Responses) CountsByCourse(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, r := range f.Items {
		out[r.CourseID]++
	}
	return out, nil
}

func (f *Responses) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Items), nil
}

type Snapshots struct {
	ByID map[string]*model.AnalyticsSnapshot
}

func (f *Snapshots) Save(_ context.Context, s *model.AnalyticsSnapshot) error {
	if f.ByID == nil {
		f.ByID = map[string]*model.AnalyticsSnapshot{}
	}
	f.ByID[s.ID] = s
	return nil
}

func (f *Snapshots) GetLatest(_ context.Context, courseID, analysisType string) (*model.AnalyticsSnapshot, error) {
	return f.ByID[courseID+":"+analysisType], nil
}

// AnalyticsCache is an in-memory cache.AnalyticsCache without expiry
type AnalyticsCache struct {
	Items       map[string]*model.CourseAnalytics
	Invalidated []string
}

func NewAnalyticsCache() *AnalyticsCache {
	return &AnalyticsCache{Items: map[string]*model.CourseAnalytics{}}
}

func (f *AnalyticsCache) Get(_ context.Context, courseID string) (*model.CourseAnalytics, error) {
	return f.Items[courseID], nil
}

func (f *AnalyticsCache) Set(_ context.Context, a *model.CourseAnalytics) error {
	f.Items[a.CourseID] = a
	return nil
}

func (f *AnalyticsCache) Invalidate(_ context.Context, courseID string) error {
	delete(f.Items, courseID)
	f.Invalidated = append(f.Invalidated, courseID)
	return nil
}

// Ranking is an in-memory cache.RankingCache
type Ranking struct {
	Scores map[string]float64
}

func NewRanking() *Ranking {
	return &Ranking{Scores: map[string]float64{}}
}

func (f *Ranking) UpdateScore(_ context.Context, courseID string, score float64) error {
	f.Scores[courseID] = score
	return nil
}

func (f *Ranking) Remove(_ context.Context, courseID string) error {
	delete(f.Scores, courseID)
	return nil
}

func (f *Ranking) GetTop(_ context.Context, limit int) ([]model.RankedCourse, error) {
	out := []model.RankedCourse{}
	for id, s := range f.Scores {
		out = append(out, model.RankedCourse{CourseID: id, PerformanceScore: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PerformanceScore != out[j].PerformanceScore {
			return out[i].PerformanceScore > out[j].PerformanceScore
		}
		return out[i].CourseID < out[j].CourseID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *Ranking) GetRank(_ context.Context, courseID string) (int64, error) {
	top, _ := f.GetTop(context.Background(), len(f.Scores))
	for _, r := range top {
		if r.CourseID == courseID {
			return int64(r.Rank), nil
		}
	}
	return -1, nil
}

type Publisher struct {
	Events []model.FeedbackEvent
}

func (f *Publisher) PublishFeedbackSubmitted(_ context.Context, evt model.FeedbackEvent) error {
	f.Events = append(f.Events, evt)
	return nil
}

type SentMessage struct {
	CourseID string
	MsgType  string
	Payload  interface{}
}

// Broadcaster records every message instead of sending it
type Broadcaster struct {
	Sent []SentMessage
}

func (f *Broadcaster) BroadcastToCourse(courseID, msgType string, payload interface{}) {
	f.Sent = append(f.Sent, SentMessage{courseID, msgType, payload})
}

// Recorder counts analytics metrics
type Recorder struct {
	Hits, Misses int
	Sources      []string
}

func (f *Recorder) RecordAnalysis(source string, _ map[string]int, _ float64) {
	f.Sources = append(f.Sources, source)
}

func (f *Recorder) RecordCacheLookup(hit bool) {
	if hit {
		f.Hits++
	} else {
		f.Misses++
	}
}

