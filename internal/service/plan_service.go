package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/metrics"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"
	"alcyxob/tritrack/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	photoURLExpiry = time.Hour

	// MaxPlanImages is the most pages one import or parse request may carry.
	MaxPlanImages = 12
	// maxConcurrentParses bounds the in-flight vision calls of one request.
	maxConcurrentParses = 4
)

// ImageInput is one photographed page of a training plan.
type ImageInput struct {
	Data     []byte
	MimeType string
}

// PlanOptions anchor an import. StartDate wins over RaceDate+Weeks; all fields are optional.
type PlanOptions struct {
	Name      string
	StartDate string
	RaceDate  string
	Weeks     int
}

// PlanImport is the result of a persisted import.
type PlanImport struct {
	Plan       *domain.TrainingPlan    `json:"plan"`
	Workouts   []domain.PlannedWorkout `json:"workouts"`
	OutOfRange []int                   `json:"outOfRange,omitempty"` // indexes into Workouts
}

// PlanDetail is a plan with its workouts and viewable photo links.
type PlanDetail struct {
	Plan      *domain.TrainingPlan    `json:"plan"`
	Workouts  []domain.PlannedWorkout `json:"workouts"`
	PhotoURLs []string                `json:"photoUrls,omitempty"`
}

type PlanService interface {
	// ParseImages reads every image concurrently and merges the results without persisting anything.
	ParseImages(ctx context.Context, images []ImageInput, opts PlanOptions) (*plan.Plan, error)
	ImportFromImages(ctx context.Context, userID string, images []ImageInput, opts PlanOptions) (*PlanImport, error)
	ImportFromJSON(ctx context.Context, userID, document string, opts PlanOptions) (*PlanImport, error)
	CreateManual(ctx context.Context, userID string, opts PlanOptions, workouts []plan.Workout) (*PlanImport, error)

	List(ctx context.Context, userID string) ([]domain.TrainingPlan, error)
	Get(ctx context.Context, userID string, planID primitive.ObjectID) (*PlanDetail, error)
	GetActive(ctx context.Context, userID string) (*domain.TrainingPlan, error)
	SetActive(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	Delete(ctx context.Context, userID string, planID primitive.ObjectID) error
}

type planService struct {
	planRepo    repository.TrainingPlanRepository
	plannedRepo repository.PlannedWorkoutRepository
	ai          Inference
	files       storage.FileStorage
	instr       *metrics.Manager
	now         func() time.Time
}

func NewPlanService(
	planRepo repository.TrainingPlanRepository,
	plannedRepo repository.PlannedWorkoutRepository,
	ai Inference,
	files storage.FileStorage,
	instr *metrics.Manager,
) PlanService {
	return &planService{
		planRepo:    planRepo,
		plannedRepo: plannedRepo,
		ai:          ai,
		files:       files,
		instr:       instr,
		now:         time.Now,
	}
}

// anchor resolves the start date of week 1: an explicit start date, else race date and week count.
func anchor(opts PlanOptions) (string, error) {
	if opts.StartDate != "" {
		if !plan.ValidDate(opts.StartDate) {
			return "", fmt.Errorf("%w: start date %q is not YYYY-MM-DD", plan.ErrInvalidArgument, opts.StartDate)
		}
		return opts.StartDate, nil
	}
	if opts.RaceDate != "" && !plan.ValidDate(opts.RaceDate) {
		return "", fmt.Errorf("%w: race date %q is not YYYY-MM-DD", plan.ErrInvalidArgument, opts.RaceDate)
	}
	if opts.Weeks < 0 {
		return "", fmt.Errorf("%w: weeks must not be negative, got %d", plan.ErrInvalidArgument, opts.Weeks)
	}
	if opts.RaceDate != "" && opts.Weeks > 0 {
		return plan.AnchorDates(opts.RaceDate, opts.Weeks)
	}
	return "", nil
}

func checkImageCount(images []ImageInput) error {
	if len(images) == 0 {
		return ErrNoImages
	}
	if len(images) > MaxPlanImages {
		return fmt.Errorf("%w: got %d, at most %d", ErrTooManyImages, len(images), MaxPlanImages)
	}
	return nil
}

// parsed is what the fan-out collects per image, indexed like the input.
type parsed struct {
	sources   []plan.Source
	starts    []string
	photoKeys []string
}

// parseAll sends every image to the vision model concurrently and, when userID is set, uploads
// the photos alongside. The first failure cancels the remaining calls.
func (s *planService) parseAll(ctx context.Context, userID string, images []ImageInput, startDate string, opts PlanOptions) (*parsed, error) {
	n := len(images)
	out := &parsed{
		sources: make([]plan.Source, n),
		starts:  make([]string, n),
	}
	if userID != "" {
		out.photoKeys = make([]string, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentParses)
	for i, img := range images {
		hints := inference.ParseHints{
			Today:      s.now(),
			StartDate:  startDate,
			RaceDate:   opts.RaceDate,
			Weeks:      opts.Weeks,
			ImageIndex: i + 1,
			ImageCount: n,
		}

		g.Go(func() error {
			text, err := s.ai.ParseImage(gctx, img.Data, img.MimeType, hints)
			s.observeAI("parse_image", err)
			if err != nil {
				return fmt.Errorf("image %d: %w", i+1, err)
			}
			schedule, err := plan.ParseSchedule(text)
			if err != nil {
				return fmt.Errorf("image %d: %w", i+1, err)
			}
			out.sources[i] = schedule.Source()
			if schedule.StartDate != nil && plan.ValidDate(*schedule.StartDate) {
				out.starts[i] = *schedule.StartDate
			}
			return nil
		})

		if userID != "" {
			g.Go(func() error {
				mimeType := img.MimeType
				if mimeType == "" {
					mimeType = inference.DefaultMimeType
				}
				key := storage.PlanPhotoKey(userID, mimeType)
				if err := s.files.Upload(gctx, key, mimeType, img.Data); err != nil {
					return fmt.Errorf("upload image %d: %w", i+1, err)
				}
				out.photoKeys[i] = key
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		s.cleanupPhotos(out.photoKeys)
		return nil, err
	}
	return out, nil
}

// mergeParsed merges the per-image sources. Without an anchor the earliest start date the model
// reported is used, falling back to the first workout.
func mergeParsed(p *parsed, startDate string, opts PlanOptions) (*plan.Plan, error) {
	if startDate == "" {
		for _, st := range p.starts {
			if st != "" && (startDate == "" || st < startDate) {
				startDate = st
			}
		}
	}
	return plan.MergeSchedules(p.sources, startDate, opts.RaceDate, opts.Weeks)
}

func (s *planService) ParseImages(ctx context.Context, images []ImageInput, opts PlanOptions) (*plan.Plan, error) {
	if err := checkImageCount(images); err != nil {
		return nil, err
	}
	startDate, err := anchor(opts)
	if err != nil {
		return nil, err
	}

	p, err := s.parseAll(ctx, "", images, startDate, opts)
	if err != nil {
		return nil, err
	}
	merged, err := mergeParsed(p, startDate, opts)
	if err != nil {
		return nil, err
	}
	warnOutOfRange(merged)
	return merged, nil
}

func (s *planService) ImportFromImages(ctx context.Context, userID string, images []ImageInput, opts PlanOptions) (*PlanImport, error) {
	if err := checkImageCount(images); err != nil {
		return nil, err
	}
	startDate, err := anchor(opts)
	if err != nil {
		return nil, err
	}

	p, err := s.parseAll(ctx, userID, images, startDate, opts)
	if err != nil {
		return nil, err
	}
	merged, err := mergeParsed(p, startDate, opts)
	if err != nil {
		s.cleanupPhotos(p.photoKeys)
		return nil, err
	}
	if merged.Empty() {
		// the photos are kept so the athlete can still look at the plan
		log.Warnf("plan import for user %s: no workouts recognised in %d image(s)", userID, len(images))
	}

	result, err := s.persist(ctx, userID, domain.PlanSourceImages, merged, opts, p.photoKeys)
	if err != nil {
		s.cleanupPhotos(p.photoKeys)
		return nil, err
	}
	return result, nil
}

func (s *planService) ImportFromJSON(ctx context.Context, userID, document string, opts PlanOptions) (*PlanImport, error) {
	startDate, err := anchor(opts)
	if err != nil {
		return nil, err
	}
	schedule, err := plan.ParseSchedule(document)
	if err != nil {
		return nil, err
	}
	if startDate == "" && schedule.StartDate != nil && plan.ValidDate(*schedule.StartDate) {
		startDate = *schedule.StartDate
	}
	if opts.Weeks == 0 && schedule.Weeks != nil && *schedule.Weeks > 0 {
		opts.Weeks = *schedule.Weeks
	}

	merged, err := plan.MergeSchedules([]plan.Source{schedule.Source()}, startDate, opts.RaceDate, opts.Weeks)
	if err != nil {
		return nil, err
	}
	if merged.Empty() {
		return nil, plan.ErrEmptyResult
	}
	return s.persist(ctx, userID, domain.PlanSourceJSON, merged, opts, nil)
}

func (s *planService) CreateManual(ctx context.Context, userID string, opts PlanOptions, workouts []plan.Workout) (*PlanImport, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrInvalidInput)
	}
	startDate, err := anchor(opts)
	if err != nil {
		return nil, err
	}
	merged, err := plan.MergeSchedules([]plan.Source{{Workouts: workouts}}, startDate, opts.RaceDate, opts.Weeks)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, userID, domain.PlanSourceManual, merged, opts, nil)
}

// persist stores the plan, its workouts in one batch, and makes it the active plan.
func (s *planService) persist(ctx context.Context, userID string, source domain.PlanSource, merged *plan.Plan, opts PlanOptions, photoKeys []string) (*PlanImport, error) {
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("Training plan %s", s.now().UTC().Format(plan.DateLayout))
	}

	tp := &domain.TrainingPlan{
		UserID:    userID,
		Name:      name,
		StartDate: merged.StartDate,
		EndDate:   merged.EndDate,
		RaceDate:  opts.RaceDate,
		Weeks:     merged.Weeks,
		Source:    source,
		PhotoKeys: photoKeys,
		Workouts:  len(merged.Workouts),
		IsActive:  true,
	}
	planID, err := s.planRepo.Create(ctx, tp)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	planned := make([]domain.PlannedWorkout, len(merged.Workouts))
	for i, w := range merged.Workouts {
		planned[i] = w.ToPlanned(userID, planID)
	}
	if _, err := s.plannedRepo.CreateMany(ctx, planned); err != nil {
		if delErr := s.planRepo.Delete(ctx, planID, userID); delErr != nil {
			log.Errorf("failed to roll back plan %s after workout insert error: %v", planID.Hex(), delErr)
		}
		return nil, fmt.Errorf("create planned workouts: %w", err)
	}

	if err := s.planRepo.DeactivateOtherPlans(ctx, userID, planID); err != nil {
		log.Warnf("failed to deactivate other plans of user %s: %v", userID, err)
	}

	if s.instr != nil {
		s.instr.CounterImportedWorkouts.Add(float64(len(planned)))
	}
	log.Infof("plan %s (%s) created for user %s with %d workouts", planID.Hex(), source, userID, len(planned))

	return &PlanImport{
		Plan:       tp,
		Workouts:   planned,
		OutOfRange: warnOutOfRange(merged),
	}, nil
}

func (s *planService) List(ctx context.Context, userID string) ([]domain.TrainingPlan, error) {
	return s.planRepo.ListByUser(ctx, userID)
}

func (s *planService) Get(ctx context.Context, userID string, planID primitive.ObjectID) (*PlanDetail, error) {
	tp, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	workouts, err := s.plannedRepo.ListByPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}

	detail := &PlanDetail{Plan: tp, Workouts: workouts}
	for _, key := range tp.PhotoKeys {
		url, err := s.files.GeneratePresignedDownloadURL(ctx, key, photoURLExpiry)
		if err != nil {
			if !errors.Is(err, storage.ErrStorageDisabled) {
				log.Warnf("failed to presign photo %s: %v", key, err)
			}
			continue
		}
		detail.PhotoURLs = append(detail.PhotoURLs, url)
	}
	return detail, nil
}

func (s *planService) GetActive(ctx context.Context, userID string) (*domain.TrainingPlan, error) {
	tp, err := s.planRepo.GetActive(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlanNotFound
	}
	return tp, err
}

func (s *planService) SetActive(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	tp, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.DeactivateOtherPlans(ctx, userID, planID); err != nil {
		return nil, err
	}
	tp.IsActive = true
	if err := s.planRepo.Update(ctx, tp); err != nil {
		return nil, err
	}
	return tp, nil
}

// Delete removes the plan's workouts first, then the plan, then its photos.
func (s *planService) Delete(ctx context.Context, userID string, planID primitive.ObjectID) error {
	tp, err := s.getOwned(ctx, userID, planID)
	if err != nil {
		return err
	}
	removed, err := s.plannedRepo.DeleteByPlan(ctx, planID, userID)
	if err != nil {
		return fmt.Errorf("delete planned workouts: %w", err)
	}
	if err := s.planRepo.Delete(ctx, planID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	s.cleanupPhotos(tp.PhotoKeys)
	log.Infof("plan %s deleted with %d planned workouts", planID.Hex(), removed)
	return nil
}

func (s *planService) getOwned(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	tp, err := s.planRepo.GetByID(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return tp, nil
}

func (s *planService) cleanupPhotos(keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s.files.DeleteObject(ctx, key); err != nil {
			log.Warnf("failed to delete plan photo %s: %v", key, err)
		}
		cancel()
	}
}

func (s *planService) observeAI(kind string, err error) {
	if s.instr != nil {
		s.instr.AICall(kind, inference.Outcome(err))
	}
}

func warnOutOfRange(p *plan.Plan) []int {
	out := p.OutOfRange()
	for _, i := range out {
		w := p.Workouts[i]
		log.Warnf("workout %q on %s falls outside plan range [%s, %s]", w.Title, w.Date, p.StartDate, p.EndDate)
	}
	return out
}
