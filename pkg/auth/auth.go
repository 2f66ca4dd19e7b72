package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanManage reports whether the role may mutate catalog data and
// operate on reservations it does not own.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", errors.Errorf("unknown role: %q", s)
}

type Config struct {
	Secret     string        `envconfig:"AUTH_SECRET" required:"true"`
	CookieName string        `envconfig:"AUTH_COOKIE" default:"rocnest_session"`
	TTL        time.Duration `envconfig:"AUTH_TTL" default:"24h"`
}

type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

type Session struct {
	config Config
}

func NewSession(cfg Config) *Session {
	return &Session{config: cfg}
}

// IssueCookie signs a session token for userID and writes it as an
// http-only cookie on the response.
func (s *Session) IssueCookie(c echo.Context, userID uuid.UUID) error {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     s.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(s.config.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (s *Session) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Authenticate parses and verifies the session cookie and returns the
// authenticated user id.
func (s *Session) Authenticate(c echo.Context) (uuid.UUID, error) {
	cookie, err := c.Cookie(s.config.CookieName)
	if err != nil {
		return uuid.Nil, errors.New("no session cookie")
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid session")
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return uuid.Nil, errors.New("session expired")
	}
	return claims.UserID, nil
}
