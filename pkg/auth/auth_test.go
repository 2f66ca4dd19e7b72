package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/vgpastor/RocNest-sub001/pkg/auth"
)

func newTestSession() *auth.Session {
	return auth.NewSession(auth.Config{
		Secret:     "test-secret",
		CookieName: "rocnest_session",
		TTL:        time.Hour,
	})
}

func TestSession_CookieRoundTrip(t *testing.T) {
	t.Parallel()
	session := newTestSession()
	userID := uuid.New()

	e := echo.New()
	w := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", http.NoBody), w)
	require.NoError(t, session.IssueCookie(c, userID))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	r.AddCookie(cookies[0])
	c = e.NewContext(r, httptest.NewRecorder())

	got, err := session.Authenticate(c)
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestSession_Authenticate(t *testing.T) {
	t.Parallel()
	session := newTestSession()

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody), httptest.NewRecorder())
		_, err := session.Authenticate(c)
		require.EqualError(t, err, "no session cookie")
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()
		e := echo.New()
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.AddCookie(&http.Cookie{Name: "rocnest_session", Value: "not-a-jwt"})
		c := e.NewContext(r, httptest.NewRecorder())
		_, err := session.Authenticate(c)
		require.EqualError(t, err, "invalid session")
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		other := auth.NewSession(auth.Config{
			Secret:     "other-secret",
			CookieName: "rocnest_session",
			TTL:        time.Hour,
		})
		e := echo.New()
		w := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", http.NoBody), w)
		require.NoError(t, other.IssueCookie(c, uuid.New()))

		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.AddCookie(w.Result().Cookies()[0])
		c = e.NewContext(r, httptest.NewRecorder())
		_, err := session.Authenticate(c)
		require.EqualError(t, err, "invalid session")
	})
}

func TestRole(t *testing.T) {
	t.Parallel()
	require.True(t, auth.RoleOwner.CanManage())
	require.True(t, auth.RoleAdmin.CanManage())
	require.False(t, auth.RoleMember.CanManage())

	role, err := auth.ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, role)

	_, err = auth.ParseRole("superuser")
	require.Error(t, err)
}
