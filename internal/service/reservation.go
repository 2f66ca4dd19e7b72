package service

import (
	"context"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/repository"
	"github.com/vgpastor/RocNest-sub001/pkg/kafka"
)

type ReservationService struct {
	log      *zap.Logger
	repo     repository.ReservationStore
	producer sarama.SyncProducer
}

// NewReservationService wires the reservation use cases. producer may
// be nil; activity events are then not published.
func NewReservationService(repo repository.ReservationStore, producer sarama.SyncProducer, log *zap.Logger) *ReservationService {
	return &ReservationService{
		log:      log,
		repo:     repo,
		producer: producer,
	}
}

func (s *ReservationService) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	if !req.StartDate.Before(req.EstimatedDate.Time) {
		return model.Reservation{}, errs.Validation("start date must be before estimated return date")
	}
	if len(req.Items) == 0 {
		return model.Reservation{}, errs.Validation("at least one item is required")
	}
	if len(req.Locations) == 0 {
		return model.Reservation{}, errs.Validation("at least one location is required")
	}
	res, err := s.repo.Create(ctx, req)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(res.ID, model.ActionCreated, &req.CreatedBy)
	return res, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, orgID, id uuid.UUID) (model.Reservation, error) {
	return s.find(ctx, id, orgID)
}

// find loads the aggregate and hides it behind not-found when it
// belongs to another organization.
func (s *ReservationService) find(ctx context.Context, id, orgID uuid.UUID) (model.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if orgID != uuid.Nil && res.OrgID != orgID {
		return model.Reservation{}, errs.ErrNotFound
	}
	return res, nil
}

func (s *ReservationService) ListReservations(ctx context.Context, f model.ReservationFilter) (model.ReservationList, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.FindMany(ctx, f)
}

func (s *ReservationService) ExtendReservation(ctx context.Context, req model.ExtendReservationRequest) (model.Reservation, error) {
	res, err := s.find(ctx, req.ReservationID, req.OrgID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !res.Status.CanExtend() {
		return model.Reservation{}, errs.State("extend", string(res.Status))
	}
	if req.Days <= 0 {
		return model.Reservation{}, errs.Validation("extension days must be positive")
	}
	if strings.TrimSpace(req.Motivation) == "" {
		return model.Reservation{}, errs.Validation("motivation is required")
	}
	updated, err := s.repo.ExtendReservation(ctx, res.Version, req)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(res.ID, model.ActionExtended, &req.ExtendedBy)
	return updated, nil
}

func (s *ReservationService) ReturnMaterials(ctx context.Context, req model.ReturnMaterialsRequest) (model.Reservation, error) {
	res, err := s.find(ctx, req.ReservationID, req.OrgID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !res.Status.CanReturn() {
		return model.Reservation{}, errs.State("return", string(res.Status))
	}
	delivered := res.DeliveredItems()
	if len(req.Inspections) != len(delivered) {
		return model.Reservation{}, errs.Validation("all delivered items must be inspected")
	}
	// Strict matching: every supplied inspection must reference one
	// distinct delivered line.
	pending := make(map[uuid.UUID]bool, len(delivered))
	for _, it := range delivered {
		pending[it.ID] = true
	}
	for _, ins := range req.Inspections {
		if !pending[ins.ReservationItemID] {
			return model.Reservation{}, errs.Validation("inspection does not match a delivered item: %s", ins.ReservationItemID)
		}
		delete(pending, ins.ReservationItemID)
	}
	updated, err := s.repo.ReturnMaterials(ctx, res.Version, req)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(res.ID, model.ActionReturned, &req.InspectorID)
	return updated, nil
}

func (s *ReservationService) DeliverMaterials(ctx context.Context, req model.DeliverMaterialsRequest) (model.Reservation, error) {
	res, err := s.find(ctx, req.ReservationID, req.OrgID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !res.Status.CanDeliver() {
		return model.Reservation{}, errs.State("deliver", string(res.Status))
	}
	lines := make(map[uuid.UUID]bool, len(res.Items))
	for _, it := range res.Items {
		if it.ItemID == nil {
			lines[it.ID] = true
		}
	}
	for _, a := range req.Assignments {
		if !lines[a.ReservationItemID] {
			return model.Reservation{}, errs.Validation("assignment does not match an undelivered line: %s", a.ReservationItemID)
		}
		delete(lines, a.ReservationItemID)
	}
	updated, err := s.repo.DeliverMaterials(ctx, res.Version, req)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(res.ID, model.ActionDelivered, &req.DeliveredBy)
	return updated, nil
}

func (s *ReservationService) CancelReservation(ctx context.Context, req model.CancelReservationRequest) (model.Reservation, error) {
	res, err := s.find(ctx, req.ReservationID, req.OrgID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !res.Status.CanCancel() {
		return model.Reservation{}, errs.State("cancel", string(res.Status))
	}
	updated, err := s.repo.Cancel(ctx, res.Version, req)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(res.ID, model.ActionCancelled, &req.PerformedBy)
	return updated, nil
}

func (s *ReservationService) UpdateStatus(ctx context.Context, req model.UpdateStatusRequest) (model.Reservation, error) {
	if !req.Status.Valid() {
		return model.Reservation{}, errs.Validation("unknown status: %s", req.Status)
	}
	res, err := s.find(ctx, req.ReservationID, req.OrgID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !res.Status.CanTransitionTo(req.Status) {
		return model.Reservation{}, errs.State("update", string(res.Status))
	}
	updated, err := s.repo.UpdateStatus(ctx, req.ReservationID, res.Version, req.Status, &req.PerformedBy, model.ActionStatus, req.Notes)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(res.ID, model.ActionStatus, &req.PerformedBy)
	return updated, nil
}

// MarkOverdue moves delivered/in_use reservations past their estimated
// return date to delayed. Invoked by the scheduler.
func (s *ReservationService) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	ids, err := s.repo.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.publish(id, model.ActionDelayed, nil)
	}
	return len(ids), nil
}

func (s *ReservationService) publish(resID uuid.UUID, action string, performedBy *uuid.UUID) {
	if s.producer == nil {
		return
	}
	event := model.ActivityEvent{
		ReservationID: resID,
		Action:        action,
		PerformedBy:   performedBy,
		At:            time.Now().UTC(),
	}
	if err := kafka.Publish(s.producer, kafka.ActivityTopic, resID.String(), event); err != nil {
		s.log.Warn("publish activity event", zap.Error(err), zap.String("action", action))
	}
}
