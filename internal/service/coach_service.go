package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/metrics"
	"alcyxob/tritrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	contextWindow   = 7 * 24 * time.Hour
	historyMessages = 10
)

// CoachReply is the assistant answer plus the session it was appended to.
type CoachReply struct {
	Reply   string                  `json:"reply"`
	Session *domain.CoachingSession `json:"session"`
}

type CoachService interface {
	Session(ctx context.Context, userID string) (*domain.CoachingSession, error)
	SendMessage(ctx context.Context, userID, message string) (*CoachReply, error)
	Clear(ctx context.Context, userID string) (*domain.CoachingSession, error)
	// Complete forwards a caller-built conversation to the chat model unchanged.
	Complete(ctx context.Context, messages []inference.Message) (string, error)
}

type coachService struct {
	sessions repository.CoachingSessionRepository
	profiles repository.ProfileRepository
	workouts repository.ActualWorkoutRepository
	meals    repository.MealRepository
	ai       Inference
	instr    *metrics.Manager
	now      func() time.Time
}

func NewCoachService(
	sessions repository.CoachingSessionRepository,
	profiles repository.ProfileRepository,
	workouts repository.ActualWorkoutRepository,
	meals repository.MealRepository,
	ai Inference,
	instr *metrics.Manager,
) CoachService {
	return &coachService{
		sessions: sessions,
		profiles: profiles,
		workouts: workouts,
		meals:    meals,
		ai:       ai,
		instr:    instr,
		now:      time.Now,
	}
}

func (s *coachService) Session(ctx context.Context, userID string) (*domain.CoachingSession, error) {
	return s.sessions.GetOrCreate(ctx, userID)
}

func (s *coachService) SendMessage(ctx context.Context, userID, message string) (*CoachReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	session, err := s.sessions.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := buildCoachPrompt(s.recentContext(ctx, userID))

	history := session.Messages
	if len(history) > historyMessages {
		history = history[len(history)-historyMessages:]
	}
	messages := make([]inference.Message, 0, len(history)+2)
	messages = append(messages, inference.Message{Role: domain.RoleSystem, Content: prompt})
	for _, m := range history {
		messages = append(messages, inference.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, inference.Message{Role: domain.RoleUser, Content: message})

	reply, err := s.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	updated, err := s.sessions.AddMessages(ctx, session.ID,
		domain.ChatMessage{Role: domain.RoleUser, Content: message},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: reply},
	)
	if err != nil {
		return nil, err
	}
	return &CoachReply{Reply: reply, Session: updated}, nil
}

// recentContext loads the profile and the last 7 days of workouts and meals concurrently.
// Any failure degrades to an empty context so the coach still answers.
func (s *coachService) recentContext(ctx context.Context, userID string) coachContext {
	since := repository.DateRange{Start: s.now().Add(-contextWindow)}
	var c coachContext

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.Get(gctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		c.Profile = p
		return err
	})
	g.Go(func() error {
		w, err := s.workouts.List(gctx, userID, since)
		c.Workouts = w
		return err
	})
	g.Go(func() error {
		m, err := s.meals.List(gctx, userID, since)
		c.Meals = m
		return err
	})

	if err := g.Wait(); err != nil {
		log.Errorf("failed to fetch coach context for user %s: %v", userID, err)
		return coachContext{}
	}
	return c
}

func (s *coachService) Clear(ctx context.Context, userID string) (*domain.CoachingSession, error) {
	session, err := s.sessions.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.sessions.ClearMessages(ctx, session.ID)
}

func (s *coachService) Complete(ctx context.Context, messages []inference.Message) (string, error) {
	reply, err := s.ai.Chat(ctx, messages)
	if s.instr != nil {
		s.instr.AICall("chat", inference.Outcome(err))
	}
	return reply, err
}
