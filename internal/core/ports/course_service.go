package ports

import (
	"context"

	"github.com/openlearn/education-platform/internal/core/domain"
)

type CourseService interface {
	List(ctx context.Context) ([]*domain.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*domain.Course, error)
	Get(ctx context.Context, id string) (*domain.Course, error)
	Create(ctx context.Context, title, description, instructorID, instructorName string) (*domain.Course, error)
	Enroll(ctx context.Context, courseID, userID string) (*domain.Enrollment, error)
	ListEnrolled(ctx context.Context, userID string) ([]*domain.Course, error)
}
