package model

type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusInUse     Status = "in_use"
	StatusReturned  Status = "returned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusDelayed   Status = "delayed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusInUse, StatusReturned,
		StatusCompleted, StatusCancelled, StatusDelayed:
		return true
	}
	return false
}

// Allowed source statuses per lifecycle operation. Every use case
// consults these sets instead of carrying its own checks.
var (
	deliverableStatuses = statusSet(StatusPending)
	returnableStatuses  = statusSet(StatusDelivered, StatusInUse)
	extendableStatuses  = statusSet(StatusPending, StatusDelivered, StatusInUse, StatusDelayed)
	cancellableStatuses = statusSet(StatusPending, StatusDelivered, StatusInUse, StatusDelayed)
)

// statusTransitions covers the generic status-update operation:
// moves not owned by a dedicated use case.
var statusTransitions = map[Status][]Status{
	StatusDelivered: {StatusInUse},
	StatusDelayed:   {StatusInUse},
	StatusReturned:  {StatusCompleted},
}

func (s Status) CanDeliver() bool { return deliverableStatuses[s] }
func (s Status) CanReturn() bool  { return returnableStatuses[s] }
func (s Status) CanExtend() bool  { return extendableStatuses[s] }
func (s Status) CanCancel() bool  { return cancellableStatuses[s] }

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func statusSet(ss ...Status) map[Status]bool {
	m := make(map[Status]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

type InspectionStatus string

const (
	InspectionOK          InspectionStatus = "ok"
	InspectionNeedsReview InspectionStatus = "needs_review"
	InspectionDamaged     InspectionStatus = "damaged"
)

type ItemStatus string

const (
	ItemAvailable   ItemStatus = "available"
	ItemReserved    ItemStatus = "reserved"
	ItemMaintenance ItemStatus = "maintenance"
	ItemRetired     ItemStatus = "retired"
)

// Activity actions recorded on the reservation audit trail.
const (
	ActionCreated   = "created"
	ActionDelivered = "delivered"
	ActionExtended  = "extended"
	ActionReturned  = "returned"
	ActionCancelled = "cancelled"
	ActionStatus    = "status_changed"
	ActionDelayed   = "marked_delayed"
)
