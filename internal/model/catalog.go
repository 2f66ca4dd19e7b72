package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/vgpastor/RocNest-sub001/pkg/auth"
)

type Organization struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Membership struct {
	OrgID  uuid.UUID `json:"orgId" db:"org_id"`
	UserID uuid.UUID `json:"userId" db:"user_id"`
	Role   auth.Role `json:"role" db:"role"`
}

type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrgID       uuid.UUID `json:"orgId" db:"org_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
}

type Item struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	OrgID      uuid.UUID  `json:"orgId" db:"org_id"`
	CategoryID uuid.UUID  `json:"categoryId" db:"category_id"`
	Name       string     `json:"name" db:"name"`
	Code       string     `json:"code" db:"code"`
	Status     ItemStatus `json:"status" db:"status"`
	Condition  string     `json:"condition" db:"condition"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateOrganizationRequest struct {
	CreatedBy uuid.UUID `json:"-"`
	Name      string    `json:"name" validate:"required"`
}

type AddMemberRequest struct {
	OrgID  uuid.UUID `json:"-"`
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   auth.Role `json:"role" validate:"required,oneof=owner admin member"`
}

type CreateCategoryRequest struct {
	OrgID       uuid.UUID `json:"-"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
}

type CreateItemRequest struct {
	OrgID      uuid.UUID `json:"-"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Code       string    `json:"code" validate:"required"`
	Condition  string    `json:"condition"`
}

type UpdateItemRequest struct {
	ItemID    uuid.UUID   `json:"-"`
	OrgID     uuid.UUID   `json:"-"`
	Name      *string     `json:"name"`
	Status    *ItemStatus `json:"status"`
	Condition *string     `json:"condition"`
}

type ItemFilter struct {
	OrgID      uuid.UUID
	CategoryID *uuid.UUID
	Status     *ItemStatus
	Page       int
	Limit      int
}

type ItemList struct {
	Paging
	Items []Item `json:"items"`
}
