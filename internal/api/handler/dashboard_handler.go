package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlearn/education-platform/internal/core/ports"
)

const adminUserListLimit = 100

// DashboardHandler serves the role-specific landing pages. Each route is
// gated to a single role by RBAC middleware; the handler only assembles the
// view for the already-authorized identity.
type DashboardHandler struct {
	courses ports.CourseService
	users   ports.UserRepository
}

func NewDashboardHandler(courses ports.CourseService, users ports.UserRepository) *DashboardHandler {
	return &DashboardHandler{courses: courses, users: users}
}

// Student returns the student dashboard: the caller's enrolled courses.
//
// @Summary      Student dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  studentDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/student [get]
func (h *DashboardHandler) Student(c echo.Context) error {
	userID, username, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	enrolled, err := h.courses.ListEnrolled(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, studentDashboardResponse{
		Role:            role,
		Username:        username,
		EnrolledCourses: enrolled,
	})
}

// Teacher returns the teacher dashboard: courses the caller instructs.
//
// @Summary      Teacher dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  teacherDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/teacher [get]
func (h *DashboardHandler) Teacher(c echo.Context) error {
	userID, username, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	mine, err := h.courses.ListByInstructor(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, teacherDashboardResponse{
		Role:     role,
		Username: username,
		Courses:  mine,
	})
}

// Admin returns the admin dashboard: user counts by role and recent users.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminDashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	_, username, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	counts, err := h.users.CountByRole(ctx)
	if err != nil {
		return err
	}
	users, err := h.users.List(ctx, adminUserListLimit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminDashboardResponse{
		Role:       role,
		Username:   username,
		UserCounts: counts,
		Users:      users,
	})
}
