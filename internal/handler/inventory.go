package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vgpastor/RocNest-sub001/internal/model"
)

func (h *Handler) CreateCategory(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.OrgID = clr.OrgID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cat, err := h.inventorySvc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *Handler) ListCategories(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	cats, err := h.inventorySvc.ListCategories(c.Request().Context(), clr.OrgID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *Handler) CreateItem(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.OrgID = clr.OrgID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.inventorySvc.CreateItem(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetItem(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid itemId")
	}
	item, err := h.inventorySvc.GetItem(c.Request().Context(), clr.OrgID, itemID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) ListItems(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	f := model.ItemFilter{OrgID: clr.OrgID}
	if s := c.QueryParam("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid categoryId")
		}
		f.CategoryID = &id
	}
	if s := c.QueryParam("status"); s != "" {
		status := model.ItemStatus(s)
		f.Status = &status
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))   //nolint:errcheck
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit")) //nolint:errcheck

	list, err := h.inventorySvc.ListItems(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid itemId")
	}
	var req model.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.OrgID = clr.OrgID
	req.ItemID = itemID
	item, err := h.inventorySvc.UpdateItem(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}
