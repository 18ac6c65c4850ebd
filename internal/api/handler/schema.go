package handler

import "github.com/openlearn/education-platform/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Role     string `json:"role"     validate:"omitempty,oneof=student teacher"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

type createCourseRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type studentDashboardResponse struct {
	Role            string           `json:"role"`
	Username        string           `json:"username"`
	EnrolledCourses []*domain.Course `json:"enrolled_courses"`
}

type teacherDashboardResponse struct {
	Role     string           `json:"role"`
	Username string           `json:"username"`
	Courses  []*domain.Course `json:"courses"`
}

type adminDashboardResponse struct {
	Role       string           `json:"role"`
	Username   string           `json:"username"`
	UserCounts map[string]int64 `json:"user_counts"`
	Users      []*domain.User   `json:"users"`
}
