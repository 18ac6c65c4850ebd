package ports

import "github.com/openlearn/education-platform/internal/core/domain"

// TokenClaims is the verified identity carried by a bearer token.
type TokenClaims struct {
	UserID   string
	Username string
	Role     string
}

// TokenService issues and verifies signed bearer tokens. Verify is
// side-effect-free and safe for concurrent use; it fails with
// domain.ErrTokenExpired when the embedded expiration has passed and
// domain.ErrTokenInvalid for any signature or structural problem.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*TokenClaims, error)
}
