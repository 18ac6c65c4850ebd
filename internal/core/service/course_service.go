package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlearn/education-platform/internal/core/domain"
	"github.com/openlearn/education-platform/internal/core/ports"
)

// CatalogCache abstracts the read-through catalog cache (Redis).
type CatalogCache interface {
	Get(ctx context.Context) ([]*domain.Course, bool)
	Set(ctx context.Context, courses []*domain.Course)
	Invalidate(ctx context.Context)
}

type courseService struct {
	courses     ports.CourseRepository
	enrollments ports.EnrollmentRepository
	cache       CatalogCache
	log         zerolog.Logger
}

// NewCourseService returns a CourseService implementation. cache may be nil,
// in which case every List hits the repository.
func NewCourseService(
	courses ports.CourseRepository,
	enrollments ports.EnrollmentRepository,
	cache CatalogCache,
	log zerolog.Logger,
) ports.CourseService {
	return &courseService{
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		log:         log,
	}
}

func (s *courseService) List(ctx context.Context) ([]*domain.Course, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return cached, nil
		}
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, courses)
	}
	return courses, nil
}

func (s *courseService) ListByInstructor(ctx context.Context, instructorID string) ([]*domain.Course, error) {
	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("list instructor courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	if id == "" {
		return nil, domain.ErrCourseNotFound
	}
	return s.courses.FindByID(ctx, id)
}

func (s *courseService) Create(ctx context.Context, title, description, instructorID, instructorName string) (*domain.Course, error) {
	if title == "" || instructorID == "" {
		return nil, domain.ErrInvalidInput
	}

	course := &domain.Course{
		Title:          title,
		Description:    description,
		InstructorID:   instructorID,
		InstructorName: instructorName,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return created, nil
}

func (s *courseService) Enroll(ctx context.Context, courseID, userID string) (*domain.Enrollment, error) {
	// Course must exist before an enrollment row is written.
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		CourseID:   courseID,
		UserID:     userID,
		EnrolledAt: time.Now().UTC(),
	}
	return s.enrollments.Create(ctx, enrollment)
}

func (s *courseService) ListEnrolled(ctx context.Context, userID string) ([]*domain.Course, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	courses := make([]*domain.Course, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.courses.FindByID(ctx, e.CourseID)
		if err != nil {
			// Course removed after enrollment; skip rather than fail the page.
			s.log.Warn().Str("course_id", e.CourseID).Msg("enrolled course missing")
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}
