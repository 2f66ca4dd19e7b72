package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/pkg/auth"
)

const userIDKey = "userID"

// sessionAuth verifies the session cookie and stashes the user id.
func (h *Handler) sessionAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := h.session.Authenticate(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

// orgContext resolves the caller's membership in the :orgId tenant and
// installs it on the request context.
func (h *Handler) orgContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := currentUserID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		orgID, err := uuid.Parse(c.Param("orgId"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid orgId")
		}
		m, err := h.orgSvc.GetMembership(c.Request().Context(), orgID, userID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return echo.NewHTTPError(http.StatusForbidden, "not a member of this organization")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		req := c.Request()
		ctx := auth.SetCaller(req.Context(), auth.Caller{
			UserID: userID,
			OrgID:  orgID,
			Role:   m.Role,
		})
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (h *Handler) requireManager(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := auth.GetCaller(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		if !caller.Role.CanManage() {
			return echo.NewHTTPError(http.StatusForbidden, "admin or owner role required")
		}
		return next(c)
	}
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("no authenticated user")
	}
	return userID, nil
}

func caller(c echo.Context) (auth.Caller, error) {
	return auth.GetCaller(c.Request().Context())
}

// httpError translates domain errors to transport codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errs.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func newRateLimiterMW(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func requestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
