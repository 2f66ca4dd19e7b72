package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vgpastor/RocNest-sub001/internal/model"
)

func (h *Handler) CreateReservation(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.OrgID = clr.OrgID
	req.CreatedBy = clr.UserID
	if req.ResponsibleID == uuid.Nil {
		req.ResponsibleID = clr.UserID
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.reservationSvc.CreateReservation(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetReservation(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resID, err := reservationID(c)
	if err != nil {
		return err
	}
	res, err := h.reservationSvc.GetReservation(c.Request().Context(), clr.OrgID, resID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListReservations(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	f := model.ReservationFilter{OrgID: clr.OrgID}
	if s := c.QueryParam("status"); s != "" {
		status := model.Status(s)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status: "+s)
		}
		f.Status = &status
	}
	if s := c.QueryParam("userId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
		}
		f.UserID = &id
	}
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = &t
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))   //nolint:errcheck
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit")) //nolint:errcheck

	list, err := h.reservationSvc.ListReservations(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeliverMaterials(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resID, err := reservationID(c)
	if err != nil {
		return err
	}
	var req model.DeliverMaterialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ReservationID = resID
	req.OrgID = clr.OrgID
	req.DeliveredBy = clr.UserID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.reservationSvc.DeliverMaterials(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ExtendReservation(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resID, err := reservationID(c)
	if err != nil {
		return err
	}
	var req model.ExtendReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ReservationID = resID
	req.OrgID = clr.OrgID
	req.ExtendedBy = clr.UserID
	res, err := h.reservationSvc.ExtendReservation(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ReturnMaterials(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resID, err := reservationID(c)
	if err != nil {
		return err
	}
	var req model.ReturnMaterialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ReservationID = resID
	req.OrgID = clr.OrgID
	req.InspectorID = clr.UserID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.reservationSvc.ReturnMaterials(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) CancelReservation(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resID, err := reservationID(c)
	if err != nil {
		return err
	}
	// Members may cancel only reservations they are responsible for or
	// created themselves.
	if !clr.Role.CanManage() {
		res, err := h.reservationSvc.GetReservation(c.Request().Context(), clr.OrgID, resID)
		if err != nil {
			return httpError(err)
		}
		if res.ResponsibleID != clr.UserID && res.CreatedBy != clr.UserID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot cancel another member's reservation")
		}
	}
	var req model.CancelReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ReservationID = resID
	req.OrgID = clr.OrgID
	req.PerformedBy = clr.UserID
	res, err := h.reservationSvc.CancelReservation(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	clr, err := caller(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	resID, err := reservationID(c)
	if err != nil {
		return err
	}
	var req model.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.ReservationID = resID
	req.OrgID = clr.OrgID
	req.PerformedBy = clr.UserID
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.reservationSvc.UpdateStatus(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func reservationID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("reservationId"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid reservationId")
	}
	return id, nil
}
