package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/openlearn/education-platform/internal/core/domain"
	"github.com/openlearn/education-platform/internal/core/service"
	"github.com/openlearn/education-platform/pkg/logger"
)

// --- In-memory repositories for the full-stack flow ---

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	next  int
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	created := *user
	r.next++
	created.ID = "u" + strconv.Itoa(r.next)
	r.users[created.Username] = &created
	out := created
	return &out, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, _ int64) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memUserRepo) CountByRole(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, u := range r.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (r *memUserRepo) HasAdmin(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

type memCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*domain.Course
	next    int
}

func (r *memCourseRepo) Create(_ context.Context, course *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *course
	r.next++
	created.ID = "c" + strconv.Itoa(r.next)
	r.courses[created.ID] = &created
	out := created
	return &out, nil
}

func (r *memCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCourseNotFound
}

func (r *memCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memCourseRepo) ListByInstructor(_ context.Context, instructorID string) ([]*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Course
	for _, c := range r.courses {
		if c.InstructorID == instructorID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[string]*domain.Enrollment
}

func (r *memEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := e.CourseID + "/" + e.UserID
	if _, exists := r.enrollments[key]; exists {
		return nil, domain.ErrAlreadyEnrolled
	}
	created := *e
	created.ID = key
	r.enrollments[key] = &created
	out := created
	return &out, nil
}

func (r *memEnrollmentRepo) ListByUser(_ context.Context, userID string) ([]*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Enrollment
	for _, e := range r.enrollments {
		if e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memEnrollmentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

// The router registers Prometheus collectors with the default registry, so it
// is built exactly once and shared across subtests.
var (
	routerOnce sync.Once
	testRouter *echo.Echo
)

func router(t *testing.T) *echo.Echo {
	t.Helper()
	routerOnce.Do(func() {
		logger.Reset()
		logger.Init(logger.Options{Level: "error", Output: io.Discard})

		users := &memUserRepo{users: make(map[string]*domain.User)}
		courses := &memCourseRepo{courses: make(map[string]*domain.Course)}
		enrollments := &memEnrollmentRepo{enrollments: make(map[string]*domain.Enrollment)}

		hasher := service.NewBcryptHasher(bcrypt.MinCost)
		tokens := service.NewTokenService("test-secret", time.Hour)
		authService := service.NewAuthService(users, hasher, tokens, nil)
		courseService := service.NewCourseService(courses, enrollments, nil, logger.Get())

		testRouter = NewRouter(Deps{
			Auth:    authService,
			Tokens:  tokens,
			Courses: courseService,
			Users:   users,
		})
	})
	return testRouter
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestRouter_FullAuthFlow(t *testing.T) {
	e := router(t)

	// Register alice as a student.
	rec, user := doJSON(t, e, http.MethodPost, "/api/v1/auth/register", "",
		`{"username":"alice","password":"secret123","email":"alice@example.com","role":"student"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	if user["username"] != "alice" || user["role"] != "student" {
		t.Fatalf("register: unexpected user view: %+v", user)
	}

	// Registering the same username again conflicts, whatever the password.
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/auth/register", "",
		`{"username":"alice","password":"another99","role":"teacher"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	// Wrong password and unknown username are indistinguishable.
	recWrong, bodyWrong := doJSON(t, e, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"alice","password":"wrong456"}`)
	recGhost, bodyGhost := doJSON(t, e, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"ghost","password":"whatever1"}`)
	if recWrong.Code != http.StatusUnauthorized || recGhost.Code != http.StatusUnauthorized {
		t.Fatalf("bad logins: expected 401/401, got %d/%d", recWrong.Code, recGhost.Code)
	}
	if bodyWrong["error"] != bodyGhost["error"] {
		t.Fatalf("login failures leak user existence: %v vs %v", bodyWrong["error"], bodyGhost["error"])
	}

	// Successful login returns a bearer token.
	rec, login := doJSON(t, e, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"alice","password":"secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	token, _ := login["token"].(string)
	if token == "" {
		t.Fatalf("login: missing token in %+v", login)
	}

	// The token resolves back to the same identity.
	rec, me := doJSON(t, e, http.MethodGet, "/api/v1/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	if me["username"] != "alice" || me["role"] != "student" {
		t.Fatalf("me: unexpected identity: %+v", me)
	}
	if _, leaked := me["passwordHash"]; leaked {
		t.Fatalf("me: password hash leaked")
	}

	// Courses require authentication but no particular role.
	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/courses", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("courses with token: expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/courses", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("courses without token: expected 401, got %d", rec.Code)
	}

	// Role gates: a student reaches the student dashboard, nothing else.
	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/dashboard/student", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("student dashboard: expected 200, got %d", rec.Code)
	}
	for _, path := range []string{"/api/v1/dashboard/teacher", "/api/v1/dashboard/admin"} {
		rec, _ = doJSON(t, e, http.MethodGet, path, token, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s with student token: expected 403, got %d", path, rec.Code)
		}
	}

	// A student cannot create courses.
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/courses", token, `{"title":"Nope"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create course as student: expected 403, got %d", rec.Code)
	}

	// A teacher can, and the student can then enroll.
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/auth/register", "",
		`{"username":"prof","password":"teach123","role":"teacher"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher register: expected 200, got %d", rec.Code)
	}
	rec, teacherLogin := doJSON(t, e, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"prof","password":"teach123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher login: expected 200, got %d", rec.Code)
	}
	teacherToken := teacherLogin["token"].(string)

	rec, course := doJSON(t, e, http.MethodPost, "/api/v1/courses", teacherToken,
		`{"title":"Algebra","description":"intro"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create course: expected 201, got %d (%s)", rec.Code, rec.Body)
	}
	courseID := course["id"].(string)

	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("enroll: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", token, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate enroll: expected 409, got %d", rec.Code)
	}

	// The teacher cannot enroll; enrollment is student-only.
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/courses/"+courseID+"/enroll", teacherToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("teacher enroll: expected 403, got %d", rec.Code)
	}

	// Teacher dashboard shows the created course.
	rec, dash := doJSON(t, e, http.MethodGet, "/api/v1/dashboard/teacher", teacherToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher dashboard: expected 200, got %d", rec.Code)
	}
	if courses, ok := dash["courses"].([]any); !ok || len(courses) != 1 {
		t.Fatalf("teacher dashboard: expected 1 course, got %+v", dash["courses"])
	}

	// Liveness needs no auth.
	rec, _ = doJSON(t, e, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
}

func TestRouter_ExpiredTokenRejected(t *testing.T) {
	e := router(t)

	expiredIssuer := service.NewTokenService("test-secret", time.Nanosecond)
	token, err := expiredIssuer.Issue(&domain.User{ID: "u1", Username: "alice", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	rec, body := doJSON(t, e, http.MethodGet, "/api/v1/auth/me", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
	if body["error"] != "token expired" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}
