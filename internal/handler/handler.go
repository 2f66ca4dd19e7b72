package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/pkg/auth"
	"github.com/vgpastor/RocNest-sub001/pkg/validate"
)

type Handler struct {
	reservationSvc ReservationService
	inventorySvc   InventoryService
	orgSvc         OrganizationService
	reviewSvc      ReviewService
	authSvc        AuthService
	session        *auth.Session
	log            *zap.Logger
}

type Services struct {
	Reservation  ReservationService
	Inventory    InventoryService
	Organization OrganizationService
	Review       ReviewService
	Auth         AuthService
}

func New(svcs Services, session *auth.Session, log *zap.Logger) *Handler {
	return &Handler{
		reservationSvc: svcs.Reservation,
		inventorySvc:   svcs.Inventory,
		orgSvc:         svcs.Organization,
		reviewSvc:      svcs.Review,
		authSvc:        svcs.Auth,
		session:        session,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	authed := api.Group("", h.sessionAuth)
	authed.POST("/organizations", h.CreateOrganization)
	authed.GET("/organizations", h.ListOrganizations)

	org := authed.Group("/organizations/:orgId", h.orgContext)
	org.POST("/members", h.AddMember, h.requireManager)

	org.GET("/categories", h.ListCategories)
	org.POST("/categories", h.CreateCategory, h.requireManager)

	org.GET("/items", h.ListItems)
	org.POST("/items", h.CreateItem, h.requireManager)
	org.GET("/items/:itemId", h.GetItem)
	org.PATCH("/items/:itemId", h.UpdateItem, h.requireManager)

	org.GET("/items/:itemId/reviews", h.ListReviews)
	org.POST("/items/:itemId/reviews", h.CreateReview)

	org.GET("/reservations", h.ListReservations)
	org.POST("/reservations", h.CreateReservation)
	org.GET("/reservations/:reservationId", h.GetReservation)
	org.POST("/reservations/:reservationId/deliver", h.DeliverMaterials, h.requireManager)
	org.POST("/reservations/:reservationId/extend", h.ExtendReservation)
	org.POST("/reservations/:reservationId/return", h.ReturnMaterials)
	org.POST("/reservations/:reservationId/cancel", h.CancelReservation)
	org.POST("/reservations/:reservationId/status", h.UpdateStatus, h.requireManager)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
