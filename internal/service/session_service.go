package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

type sessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	Create(ctx context.Context, session *models.Session) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CreateSessionRequest describes the admin session creation payload.
type CreateSessionRequest struct {
	CourseID         string    `json:"course_id" validate:"required"`
	StartsAt         time.Time `json:"starts_at" validate:"required"`
	EndsAt           time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Location         string    `json:"location" validate:"required"`
	MaxSpots         int       `json:"max_spots" validate:"required,gt=0"`
	MainInstructorID string    `json:"main_instructor_id"`
}

// SessionService manages the session calendar.
type SessionService struct {
	repo      sessionRepository
	courses   courseReader
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs SessionService. cacheTTL bounds how stale
// a cached session view may get.
func NewSessionService(repo sessionRepository, courses courseReader, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, courses: courses, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns sessions with pagination metadata.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sessions, pagination, nil
}

// Get returns one session. Reads go through a short-lived cache; seat
// counts may lag by the TTL, which is fine for display (admission never
// reads the cache).
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	key := "session:" + id
	var cached models.Session
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	if err := s.cache.Set(ctx, key, session, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache session", zap.String("session_id", id), zap.Error(err))
	}
	return session, nil
}

// Create adds a session to the calendar.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	session := &models.Session{
		CourseID: req.CourseID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Location: req.Location,
		MaxSpots: req.MaxSpots,
	}
	if req.MainInstructorID != "" {
		id := req.MainInstructorID
		session.MainInstructorID = &id
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}
