package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a checklist-based condition assessment of one item,
// recorded outside the reservation flow (periodic gear checks).
type Review struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	OrgID      uuid.UUID        `json:"orgId" db:"org_id"`
	ItemID     uuid.UUID        `json:"itemId" db:"item_id"`
	ReviewerID uuid.UUID        `json:"reviewerId" db:"reviewer_id"`
	Status     InspectionStatus `json:"status" db:"status"`
	Notes      string           `json:"notes" db:"notes"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`

	Checks []ReviewCheck `json:"checks" db:"-"`
}

type ReviewCheck struct {
	ID       uuid.UUID `json:"id" db:"id"`
	ReviewID uuid.UUID `json:"reviewId" db:"review_id"`
	Label    string    `json:"label" db:"label"`
	Passed   bool      `json:"passed" db:"passed"`
	Notes    string    `json:"notes" db:"notes"`
}

type CreateReviewRequest struct {
	OrgID      uuid.UUID          `json:"-"`
	ItemID     uuid.UUID          `json:"-"`
	ReviewerID uuid.UUID          `json:"-"`
	Status     InspectionStatus   `json:"status" validate:"required,oneof=ok needs_review damaged"`
	Notes      string             `json:"notes"`
	Checks     []ReviewCheckInput `json:"checks" validate:"required,min=1,dive"`
}

type ReviewCheckInput struct {
	Label  string `json:"label" validate:"required"`
	Passed bool   `json:"passed"`
	Notes  string `json:"notes"`
}
