package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories with the same ownership and ordering rules as the mongo ones.

func inRange(t time.Time, r repository.DateRange) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

type fakePlanRepo struct {
	mu        sync.Mutex
	plans     map[primitive.ObjectID]*domain.TrainingPlan
	createErr error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.TrainingPlan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, p *domain.TrainingPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.plans[p.ID] = &cp
	return p.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID, userID string) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlanRepo) ListByUser(_ context.Context, userID string) ([]domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.TrainingPlan{}
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePlanRepo) GetActive(_ context.Context, userID string) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.UserID == userID && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) Update(_ context.Context, p *domain.TrainingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.plans[p.ID]
	if !ok || existing.UserID != p.UserID {
		return repository.ErrNotFound
	}
	cp := *p
	r.plans[p.ID] = &cp
	return nil
}

func (r *fakePlanRepo) DeactivateOtherPlans(_ context.Context, userID string, exclude primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.plans {
		if p.UserID == userID && id != exclude {
			p.IsActive = false
		}
	}
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *fakePlanRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plans)
}

type fakePlannedRepo struct {
	mu            sync.Mutex
	workouts      []domain.PlannedWorkout
	createManyErr error
}

func (r *fakePlannedRepo) Create(_ context.Context, w *domain.PlannedWorkout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = primitive.NewObjectID()
	r.workouts = append(r.workouts, *w)
	return w.ID, nil
}

func (r *fakePlannedRepo) CreateMany(_ context.Context, ws []domain.PlannedWorkout) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createManyErr != nil {
		return nil, r.createManyErr
	}
	ids := make([]primitive.ObjectID, len(ws))
	for i := range ws {
		ws[i].ID = primitive.NewObjectID()
		ids[i] = ws[i].ID
		r.workouts = append(r.workouts, ws[i])
	}
	return ids, nil
}

func (r *fakePlannedRepo) List(_ context.Context, userID string, dr repository.DateRange) ([]domain.PlannedWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.PlannedWorkout{}
	for _, w := range r.workouts {
		if w.UserID != userID {
			continue
		}
		d, _ := time.Parse("2006-01-02", w.ScheduledDate)
		if inRange(d, repository.DateRange{Start: truncDay(dr.Start), End: dr.End}) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate < out[j].ScheduledDate })
	return out, nil
}

func truncDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *fakePlannedRepo) ListByPlan(_ context.Context, planID primitive.ObjectID, userID string) ([]domain.PlannedWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.PlannedWorkout{}
	for _, w := range r.workouts {
		if w.PlanID == planID && w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakePlannedRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			r.workouts = append(r.workouts[:i], r.workouts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePlannedRepo) DeleteByPlan(_ context.Context, planID primitive.ObjectID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.workouts[:0]
	var removed int64
	for _, w := range r.workouts {
		if w.PlanID == planID && w.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, w)
	}
	r.workouts = kept
	return removed, nil
}

type fakeActualRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]domain.ActualWorkout
	listErr  error
}

func newFakeActualRepo() *fakeActualRepo {
	return &fakeActualRepo{workouts: map[primitive.ObjectID]domain.ActualWorkout{}}
}

func (r *fakeActualRepo) Create(_ context.Context, w *domain.ActualWorkout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = primitive.NewObjectID()
	r.workouts[w.ID] = *w
	return w.ID, nil
}

func (r *fakeActualRepo) GetByID(_ context.Context, id primitive.ObjectID, userID string) (*domain.ActualWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *fakeActualRepo) List(_ context.Context, userID string, dr repository.DateRange) ([]domain.ActualWorkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []domain.ActualWorkout{}
	for _, w := range r.workouts {
		if w.UserID == userID && inRange(w.CompletedAt, dr) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (r *fakeActualRepo) Update(_ context.Context, w *domain.ActualWorkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.workouts[w.ID]
	if !ok || existing.UserID != w.UserID {
		return repository.ErrNotFound
	}
	r.workouts[w.ID] = *w
	return nil
}

func (r *fakeActualRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

type fakeMealRepo struct {
	mu    sync.Mutex
	meals []domain.Meal
}

func (r *fakeMealRepo) Create(_ context.Context, m *domain.Meal) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = primitive.NewObjectID()
	r.meals = append(r.meals, *m)
	return m.ID, nil
}

func (r *fakeMealRepo) List(_ context.Context, userID string, dr repository.DateRange) ([]domain.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Meal{}
	for _, m := range r.meals {
		if m.UserID == userID && inRange(m.LoggedAt, dr) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	return out, nil
}

func (r *fakeMealRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.meals {
		if m.ID == id && m.UserID == userID {
			r.meals = append(r.meals[:i], r.meals[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]domain.Profile{}}
}

func (r *fakeProfileRepo) Get(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = *p
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.CoachingSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.CoachingSession{}}
}

func (r *fakeSessionRepo) GetOrCreate(_ context.Context, userID string) (*domain.CoachingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = &domain.CoachingSession{ID: primitive.NewObjectID(), UserID: userID, Messages: []domain.ChatMessage{}}
		r.sessions[userID] = s
	}
	cp := *s
	cp.Messages = append([]domain.ChatMessage(nil), s.Messages...)
	return &cp, nil
}

func (r *fakeSessionRepo) byID(id primitive.ObjectID) *domain.CoachingSession {
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *fakeSessionRepo) AddMessages(_ context.Context, id primitive.ObjectID, msgs ...domain.ChatMessage) (*domain.CoachingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.byID(id)
	if s == nil {
		return nil, repository.ErrNotFound
	}
	s.Messages = append(s.Messages, msgs...)
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) ClearMessages(_ context.Context, id primitive.ObjectID) (*domain.CoachingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.byID(id)
	if s == nil {
		return nil, repository.ErrNotFound
	}
	s.Messages = []domain.ChatMessage{}
	cp := *s
	return &cp, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return context.DeadlineExceeded
	}
	s.objects[key] = body
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example/" + key, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
