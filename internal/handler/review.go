package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vgpastor/RocNest-sub001/internal/model"
)

func (h *Handler) CreateReview(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid itemId")
	}
	var req model.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.OrgID = clr.OrgID
	req.ItemID = itemID
	req.ReviewerID = clr.UserID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	review, err := h.reviewSvc.CreateReview(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) ListReviews(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid itemId")
	}
	reviews, err := h.reviewSvc.ListReviews(c.Request().Context(), clr.OrgID, itemID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}
