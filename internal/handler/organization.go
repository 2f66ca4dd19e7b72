package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vgpastor/RocNest-sub001/internal/model"
)

func (h *Handler) CreateOrganization(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.CreatedBy = userID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	org, err := h.orgSvc.CreateOrganization(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, org)
}

func (h *Handler) ListOrganizations(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	orgs, err := h.orgSvc.ListOrganizations(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orgs)
}

func (h *Handler) AddMember(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.OrgID = clr.OrgID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.orgSvc.AddMember(c.Request().Context(), req); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}
