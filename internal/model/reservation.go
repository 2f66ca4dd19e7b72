package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Reservation is the aggregate root for one equipment borrow request.
// All nested collections are exclusively owned by it.
type Reservation struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	OrgID               uuid.UUID  `json:"orgId" db:"org_id"`
	ResponsibleID       uuid.UUID  `json:"responsibleId" db:"responsible_id"`
	CreatedBy           uuid.UUID  `json:"createdBy" db:"created_by"`
	StartDate           time.Time  `json:"startDate" db:"start_date"`
	EstimatedReturnDate time.Time  `json:"estimatedReturnDate" db:"estimated_return_date"`
	ActualReturnDate    *time.Time `json:"actualReturnDate,omitempty" db:"actual_return_date"`
	Purpose             *string    `json:"purpose,omitempty" db:"purpose"`
	Status              Status     `json:"status" db:"status"`
	Version             int        `json:"version" db:"version"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`

	Items        []ReservationItem      `json:"items" db:"-"`
	Locations    []ReservationLocation  `json:"locations" db:"-"`
	Extensions   []ReservationExtension `json:"extensions" db:"-"`
	Activity     []ReservationActivity  `json:"activity" db:"-"`
	Participants []uuid.UUID            `json:"participants" db:"-"`
}

// DeliveredItems returns the reservation lines bound to a concrete item.
func (r *Reservation) DeliveredItems() []ReservationItem {
	var out []ReservationItem
	for _, it := range r.Items {
		if it.ItemID != nil {
			out = append(out, it)
		}
	}
	return out
}

type ReservationItem struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ReservationID uuid.UUID  `json:"reservationId" db:"reservation_id"`
	CategoryID    uuid.UUID  `json:"categoryId" db:"category_id"`
	Position      int        `json:"-" db:"position"`
	Quantity      int        `json:"requestedQuantity" db:"quantity"`
	Notes         string     `json:"notes" db:"notes"`
	ItemID        *uuid.UUID `json:"itemId,omitempty" db:"item_id"`
	DeliveredBy   *uuid.UUID `json:"deliveredBy,omitempty" db:"delivered_by"`

	Inspections []Inspection `json:"inspections" db:"-"`
}

type ReservationLocation struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ReservationID uuid.UUID `json:"reservationId" db:"reservation_id"`
	Location      string    `json:"location" db:"location"`
	Description   *string   `json:"description,omitempty" db:"description"`
}

type ReservationExtension struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ReservationID uuid.UUID `json:"reservationId" db:"reservation_id"`
	Days          int       `json:"days" db:"days"`
	Motivation    string    `json:"motivation" db:"motivation"`
	ExtendedBy    uuid.UUID `json:"extendedBy" db:"extended_by"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type ReservationActivity struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ReservationID uuid.UUID  `json:"reservationId" db:"reservation_id"`
	Action        string     `json:"action" db:"action"`
	PerformedBy   *uuid.UUID `json:"performedBy,omitempty" db:"performed_by"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

type Inspection struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	ReservationItemID uuid.UUID        `json:"reservationItemId" db:"reservation_item_id"`
	Status            InspectionStatus `json:"status" db:"status"`
	Notes             *string          `json:"notes,omitempty" db:"notes"`
	Photos            Photos           `json:"photos" db:"photos"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
}

// Photos is stored as a jsonb array.
type Photos []string

func (p Photos) Value() (driver.Value, error) {
	if p == nil {
		p = Photos{}
	}
	return json.Marshal(p)
}

func (p *Photos) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Photos{}
		return nil
	}
	return errors.Errorf("photos scan: unsupported type %T", src)
}

// Date accepts both date-only and RFC3339 strings on input and always
// marshals date-only.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date { return Date{Time: t} }

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.Errorf("invalid date: %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type CreateReservationRequest struct {
	OrgID         uuid.UUID   `json:"-"`
	CreatedBy     uuid.UUID   `json:"-"`
	ResponsibleID uuid.UUID   `json:"responsibleId" validate:"required"`
	StartDate     Date        `json:"startDate" validate:"required"`
	EstimatedDate Date        `json:"estimatedReturnDate" validate:"required"`
	Purpose       *string     `json:"purpose"`
	Participants  []uuid.UUID `json:"participants"`

	Locations []LocationInput        `json:"locations"`
	Items     []ReservationItemInput `json:"items"`
}

type ReservationItemInput struct {
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
	Quantity   int       `json:"requestedQuantity" validate:"required,gt=0"`
	Notes      string    `json:"notes"`
}

type LocationInput struct {
	Location    string  `json:"location" validate:"required"`
	Description *string `json:"description"`
}

type ExtendReservationRequest struct {
	ReservationID uuid.UUID `json:"-"`
	OrgID         uuid.UUID `json:"-"`
	ExtendedBy    uuid.UUID `json:"-"`
	Days          int       `json:"extensionDays"`
	Motivation    string    `json:"motivation"`
}

type ReturnMaterialsRequest struct {
	ReservationID    uuid.UUID         `json:"-"`
	OrgID            uuid.UUID         `json:"-"`
	InspectorID      uuid.UUID         `json:"-"`
	ActualReturnDate Date              `json:"actualReturnDate" validate:"required"`
	Inspections      []InspectionInput `json:"inspections"`
}

type InspectionInput struct {
	ReservationItemID uuid.UUID        `json:"reservationItemId" validate:"required"`
	Status            InspectionStatus `json:"status" validate:"required,oneof=ok needs_review damaged"`
	Notes             *string          `json:"notes"`
	Photos            []string         `json:"photos"`
}

type DeliverMaterialsRequest struct {
	ReservationID uuid.UUID            `json:"-"`
	OrgID         uuid.UUID            `json:"-"`
	DeliveredBy   uuid.UUID            `json:"-"`
	Assignments   []DeliveryAssignment `json:"assignments" validate:"required,min=1,dive"`
}

type DeliveryAssignment struct {
	ReservationItemID uuid.UUID `json:"reservationItemId" validate:"required"`
	ItemID            uuid.UUID `json:"itemId" validate:"required"`
}

type UpdateStatusRequest struct {
	ReservationID uuid.UUID `json:"-"`
	OrgID         uuid.UUID `json:"-"`
	PerformedBy   uuid.UUID `json:"-"`
	Status        Status    `json:"status" validate:"required"`
	Notes         *string   `json:"notes"`
}

type CancelReservationRequest struct {
	ReservationID uuid.UUID `json:"-"`
	OrgID         uuid.UUID `json:"-"`
	PerformedBy   uuid.UUID `json:"-"`
	Notes         *string   `json:"notes"`
}

type ReservationFilter struct {
	OrgID  uuid.UUID  `json:"orgId"`
	Status *Status    `json:"status"`
	UserID *uuid.UUID `json:"userId"`
	From   *time.Time `json:"from"`
	To     *time.Time `json:"to"`
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ReservationList struct {
	Paging
	Items []Reservation `json:"items"`
}

// ActivityEvent is the payload published to the activity topic.
type ActivityEvent struct {
	ReservationID uuid.UUID  `json:"reservationId"`
	Action        string     `json:"action"`
	PerformedBy   *uuid.UUID `json:"performedBy,omitempty"`
	At            time.Time  `json:"at"`
}
