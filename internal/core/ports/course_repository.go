package ports

import (
	"context"

	"github.com/openlearn/education-platform/internal/core/domain"
)

type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*domain.Course, error)
}

// EnrollmentRepository persists student/course enrollments. Create fails
// with domain.ErrAlreadyEnrolled when the (course, user) pair exists.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}
