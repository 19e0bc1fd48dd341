package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type instructorReader interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	ListActiveByCourseType(ctx context.Context, courseType string) ([]models.Instructor, error)
}

type assignmentRepo interface {
	FindActive(ctx context.Context, studentID, courseType string) (*models.Assignment, error)
	CountActiveByInstructors(ctx context.Context, instructorIDs []string) ([]models.InstructorLoad, error)
	ReplaceActive(ctx context.Context, assignment *models.Assignment) error
	ExistsActiveForInstructor(ctx context.Context, studentID, instructorID, courseType string) (bool, error)
}

// AssignRequest describes an automatic assignment request.
type AssignRequest struct {
	StudentID            string `json:"student_id" validate:"required"`
	CourseType           string `json:"course_type" validate:"required"`
	PreferredVehicleType string `json:"preferred_vehicle_type" validate:"omitempty,oneof=MANUAL AUTOMATIC"`
}

// ChangeInstructorRequest describes a manual instructor override.
type ChangeInstructorRequest struct {
	StudentID        string `json:"student_id" validate:"required"`
	FromInstructorID string `json:"from_instructor_id" validate:"required"`
	ToInstructorID   string `json:"to_instructor_id" validate:"required"`
	CourseType       string `json:"course_type" validate:"required"`
	Comment          string `json:"comment"`
}

// AssignResult carries the created assignment with its match explanation.
type AssignResult struct {
	Assignment *models.Assignment `json:"assignment"`
	Score      int                `json:"score"`
	Breakdown  ScoreBreakdown     `json:"breakdown"`
}

// AssignmentService matches students to instructors and records the
// decision.
type AssignmentService struct {
	students    studentReader
	instructors instructorReader
	assignments assignmentRepo
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService creates a service instance.
func NewAssignmentService(
	students studentReader,
	instructors instructorReader,
	assignments assignmentRepo,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		students:    students,
		instructors: instructors,
		assignments: assignments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Assign selects the best-scoring active instructor for the course type and
// records the assignment, deactivating any prior one atomically. Ties are
// broken deterministically: the first candidate in store order wins.
func (s *AssignmentService) Assign(ctx context.Context, req AssignRequest) (*AssignResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	candidates, err := s.loadCandidates(ctx, req.CourseType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate instructors")
	}
	if len(candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoInstructorAvailable, fmt.Sprintf("no instructor available for course type %s", req.CourseType))
	}

	loads, err := s.loadsByInstructor(ctx, candidates)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor workloads")
	}

	var pref *models.VehicleType
	if req.PreferredVehicleType != "" {
		v := models.VehicleType(req.PreferredVehicleType)
		pref = &v
	}

	var best *models.Instructor
	var bestBreakdown ScoreBreakdown
	for i := range candidates {
		breakdown := Score(ScoreInput{
			Student:           *student,
			Instructor:        candidates[i],
			ActiveAssignments: loads[candidates[i].ID],
			PreferredVehicle:  pref,
		})
		// Strictly greater keeps the first-seen candidate on equal scores.
		if best == nil || breakdown.Total > bestBreakdown.Total {
			best = &candidates[i]
			bestBreakdown = breakdown
		}
	}

	assignment := &models.Assignment{
		StudentID:    req.StudentID,
		InstructorID: best.ID,
		CourseType:   req.CourseType,
		Reason:       models.AssignmentReasonAuto,
	}
	if err := s.assignments.ReplaceActive(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record assignment")
	}

	s.metrics.RecordAssignment(string(models.AssignmentReasonAuto))
	s.logger.Info("instructor assigned",
		zap.String("student_id", req.StudentID),
		zap.String("instructor_id", best.ID),
		zap.String("course_type", req.CourseType),
		zap.Int("score", bestBreakdown.Total),
	)

	return &AssignResult{Assignment: assignment, Score: bestBreakdown.Total, Breakdown: bestBreakdown}, nil
}

// ChangeInstructor records a manual override, bypassing scoring. The
// current active assignment must point at the from-instructor.
func (s *AssignmentService) ChangeInstructor(ctx context.Context, req ChangeInstructorRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	target, err := s.instructors.FindByID(ctx, req.ToInstructorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target instructor")
	}
	if !target.Active {
		return nil, appErrors.Clone(appErrors.ErrConflict, "target instructor is inactive")
	}
	if !target.SupportsCourseType(req.CourseType) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "target instructor does not teach this course type")
	}

	current, err := s.assignments.ExistsActiveForInstructor(ctx, req.StudentID, req.FromInstructorID, req.CourseType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check current assignment")
	}
	if !current {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student is not currently assigned to the given instructor")
	}

	assignment := &models.Assignment{
		StudentID:    req.StudentID,
		InstructorID: req.ToInstructorID,
		CourseType:   req.CourseType,
		Reason:       models.AssignmentReasonManual,
	}
	if req.Comment != "" {
		comment := req.Comment
		assignment.Comment = &comment
	}
	if err := s.assignments.ReplaceActive(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record assignment")
	}

	s.metrics.RecordAssignment(string(models.AssignmentReasonManual))
	s.logger.Info("instructor changed",
		zap.String("student_id", req.StudentID),
		zap.String("from_instructor_id", req.FromInstructorID),
		zap.String("to_instructor_id", req.ToInstructorID),
		zap.String("course_type", req.CourseType),
	)

	return assignment, nil
}

// GetActive returns the active assignment for (student, course type).
func (s *AssignmentService) GetActive(ctx context.Context, studentID, courseType string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindActive(ctx, studentID, courseType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// loadCandidates returns the instructor roster for a course type, cached
// briefly. Only profile data is cached; live assignment counts are always
// read fresh so workload scoring never acts on stale numbers.
func (s *AssignmentService) loadCandidates(ctx context.Context, courseType string) ([]models.Instructor, error) {
	key := "roster:" + courseType
	var cached []models.Instructor
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	candidates, err := s.instructors.ListActiveByCourseType(ctx, courseType)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, candidates, 0); err != nil {
		s.logger.Warn("failed to cache instructor roster", zap.String("course_type", courseType), zap.Error(err))
	}
	return candidates, nil
}

func (s *AssignmentService) loadsByInstructor(ctx context.Context, candidates []models.Instructor) (map[string]int, error) {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	loads, err := s.assignments.CountActiveByInstructors(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(loads))
	for _, l := range loads {
		byID[l.InstructorID] = l.ActiveCount
	}
	return byID, nil
}
