package service

import (
	"context"
	"time"

	"github.com/openlearn/education-platform/internal/core/domain"
	"github.com/openlearn/education-platform/internal/core/ports"
)

// AuthService implements registration, login, and identity lookup.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	activity ports.ActivityRecorder
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, activity ports.ActivityRecorder) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, activity: activity}
}

// Register creates a new user. An empty role defaults to student; admin is
// not self-registerable. The returned user carries its hash internally but
// the field is never serialized.
func (s *AuthService) Register(ctx context.Context, username, password, email, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.SelfRegisterRole(role) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(domain.ActivityRegister, created.Username, created.ID)
	return created, nil
}

// Login verifies credentials and issues a bearer token. A missing user and a
// wrong password return the identical error so usernames cannot be probed.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.record(domain.ActivityLoginFailure, username, "")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(domain.ActivityLoginFailure, username, user.ID)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.record(domain.ActivityLoginSuccess, user.Username, user.ID)
	return token, user, nil
}

// CurrentUser resolves the identity a verified token refers to. The user may
// have been removed after issuance, in which case ErrUserNotFound surfaces.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) record(t domain.ActivityType, username, userID string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.ActivityEvent{
		Type:       t,
		Username:   username,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
}
