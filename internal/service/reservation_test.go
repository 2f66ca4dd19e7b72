package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/service"
)

// fakeStore keeps reservations in memory and counts mutating calls so
// tests can assert nothing was persisted on a rejected request.
type fakeStore struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]model.Reservation
	writes       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{reservations: make(map[uuid.UUID]model.Reservation)}
}

func (f *fakeStore) Create(_ context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	res := model.Reservation{
		ID:                  uuid.New(),
		OrgID:               req.OrgID,
		ResponsibleID:       req.ResponsibleID,
		CreatedBy:           req.CreatedBy,
		StartDate:           req.StartDate.Time,
		EstimatedReturnDate: req.EstimatedDate.Time,
		Purpose:             req.Purpose,
		Status:              model.StatusPending,
		Version:             1,
	}
	for i, in := range req.Items {
		res.Items = append(res.Items, model.ReservationItem{
			ID:            uuid.New(),
			ReservationID: res.ID,
			CategoryID:    in.CategoryID,
			Position:      i,
			Quantity:      in.Quantity,
			Notes:         in.Notes,
		})
	}
	for _, in := range req.Locations {
		res.Locations = append(res.Locations, model.ReservationLocation{
			ID:            uuid.New(),
			ReservationID: res.ID,
			Location:      in.Location,
			Description:   in.Description,
		})
	}
	res.Participants = req.Participants
	f.reservations[res.ID] = res
	return res, nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return res, nil
}

func (f *fakeStore) FindMany(_ context.Context, fl model.ReservationFilter) (model.ReservationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := model.ReservationList{Paging: model.Paging{Page: fl.Page, PageSize: fl.Limit}}
	for _, r := range f.reservations {
		if r.OrgID != fl.OrgID {
			continue
		}
		if fl.Status != nil && r.Status != *fl.Status {
			continue
		}
		list.Items = append(list.Items, r)
	}
	list.TotalElements = len(list.Items)
	return list, nil
}

func (f *fakeStore) mutate(id uuid.UUID, version int, fn func(*model.Reservation)) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	if res.Version != version {
		return model.Reservation{}, errs.ErrConflict
	}
	fn(&res)
	res.Version++
	f.writes++
	f.reservations[id] = res
	return res, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, version int, status model.Status, _ *uuid.UUID, _ string, _ *string) (model.Reservation, error) {
	return f.mutate(id, version, func(r *model.Reservation) {
		r.Status = status
	})
}

func (f *fakeStore) DeliverMaterials(_ context.Context, version int, req model.DeliverMaterialsRequest) (model.Reservation, error) {
	return f.mutate(req.ReservationID, version, func(r *model.Reservation) {
		for _, a := range req.Assignments {
			for i := range r.Items {
				if r.Items[i].ID == a.ReservationItemID {
					itemID := a.ItemID
					r.Items[i].ItemID = &itemID
					r.Items[i].DeliveredBy = &req.DeliveredBy
				}
			}
		}
		r.Status = model.StatusDelivered
	})
}

func (f *fakeStore) ReturnMaterials(_ context.Context, version int, req model.ReturnMaterialsRequest) (model.Reservation, error) {
	return f.mutate(req.ReservationID, version, func(r *model.Reservation) {
		r.Status = model.StatusReturned
		t := req.ActualReturnDate.Time
		r.ActualReturnDate = &t
	})
}

func (f *fakeStore) ExtendReservation(_ context.Context, version int, req model.ExtendReservationRequest) (model.Reservation, error) {
	return f.mutate(req.ReservationID, version, func(r *model.Reservation) {
		r.EstimatedReturnDate = r.EstimatedReturnDate.AddDate(0, 0, req.Days)
		r.Extensions = append(r.Extensions, model.ReservationExtension{
			ID:            uuid.New(),
			ReservationID: r.ID,
			Days:          req.Days,
			Motivation:    req.Motivation,
			ExtendedBy:    req.ExtendedBy,
		})
	})
}

func (f *fakeStore) Cancel(_ context.Context, version int, req model.CancelReservationRequest) (model.Reservation, error) {
	return f.mutate(req.ReservationID, version, func(r *model.Reservation) {
		r.Status = model.StatusCancelled
	})
}

func (f *fakeStore) MarkOverdue(_ context.Context, asOf time.Time) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id, r := range f.reservations {
		if (r.Status == model.StatusDelivered || r.Status == model.StatusInUse) &&
			r.EstimatedReturnDate.Before(asOf) {
			r.Status = model.StatusDelayed
			f.reservations[id] = r
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func newTestService(store *fakeStore) *service.ReservationService {
	return service.NewReservationService(store, nil, zap.NewNop())
}

func validCreateReq(orgID uuid.UUID) model.CreateReservationRequest {
	userID := uuid.New()
	return model.CreateReservationRequest{
		OrgID:         orgID,
		CreatedBy:     userID,
		ResponsibleID: userID,
		StartDate:     model.NewDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
		EstimatedDate: model.NewDate(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
		Locations:     []model.LocationInput{{Location: "Refugio de Góriz"}},
		Items: []model.ReservationItemInput{
			{CategoryID: uuid.New(), Quantity: 2},
			{CategoryID: uuid.New(), Quantity: 1},
		},
	}
}

func TestReservationService_CreateReservation(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(*model.CreateReservationRequest)
		wantErr string
	}{
		{
			name:   "ok",
			mutate: func(_ *model.CreateReservationRequest) {},
		},
		{
			name: "start date after estimated return",
			mutate: func(r *model.CreateReservationRequest) {
				r.StartDate = model.NewDate(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
			},
			wantErr: "start date must be before estimated return date",
		},
		{
			name: "start date equal to estimated return",
			mutate: func(r *model.CreateReservationRequest) {
				r.StartDate = r.EstimatedDate
			},
			wantErr: "start date must be before estimated return date",
		},
		{
			name: "no items",
			mutate: func(r *model.CreateReservationRequest) {
				r.Items = nil
			},
			wantErr: "at least one item is required",
		},
		{
			name: "no locations",
			mutate: func(r *model.CreateReservationRequest) {
				r.Locations = nil
			},
			wantErr: "at least one location is required",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			svc := newTestService(store)

			req := validCreateReq(orgID)
			tt.mutate(&req)
			res, err := svc.CreateReservation(context.Background(), req)

			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				require.True(t, errs.IsValidation(err))
				require.Zero(t, store.writeCount(), "rejected request must not be persisted")
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.StatusPending, res.Status)
			require.Equal(t, 1, res.Version)
			require.Len(t, res.Items, 2)
			require.Len(t, res.Locations, 1)
			require.Empty(t, res.DeliveredItems())
		})
	}
}

func TestReservationService_ExtendReservation(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()

	tests := []struct {
		name    string
		status  model.Status
		days    int
		motive  string
		wantErr string
	}{
		{name: "ok while pending", status: model.StatusPending, days: 3, motive: "weather"},
		{name: "ok while delivered", status: model.StatusDelivered, days: 1, motive: "route change"},
		{name: "ok while delayed", status: model.StatusDelayed, days: 2, motive: "late return"},
		{name: "returned", status: model.StatusReturned, days: 3, motive: "x", wantErr: "cannot extend reservation with status: returned"},
		{name: "completed", status: model.StatusCompleted, days: 3, motive: "x", wantErr: "cannot extend reservation with status: completed"},
		{name: "cancelled", status: model.StatusCancelled, days: 3, motive: "x", wantErr: "cannot extend reservation with status: cancelled"},
		{name: "zero days", status: model.StatusPending, days: 0, motive: "x", wantErr: "extension days must be positive"},
		{name: "negative days", status: model.StatusPending, days: -2, motive: "x", wantErr: "extension days must be positive"},
		{name: "blank motivation", status: model.StatusPending, days: 3, motive: "   ", wantErr: "motivation is required"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			svc := newTestService(store)

			res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
			require.NoError(t, err)
			if tt.status != model.StatusPending {
				store.reservations[res.ID] = withStatus(store.reservations[res.ID], tt.status)
			}
			writesBefore := store.writeCount()

			updated, err := svc.ExtendReservation(context.Background(), model.ExtendReservationRequest{
				ReservationID: res.ID,
				OrgID:         orgID,
				ExtendedBy:    res.CreatedBy,
				Days:          tt.days,
				Motivation:    tt.motive,
			})
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				require.True(t, errs.IsValidation(err))
				require.Equal(t, writesBefore, store.writeCount())
				return
			}
			require.NoError(t, err)
			require.Len(t, updated.Extensions, 1)
			require.Equal(t, tt.days, updated.Extensions[0].Days)
			require.Equal(t, tt.motive, updated.Extensions[0].Motivation)
			require.Equal(t, res.EstimatedReturnDate.AddDate(0, 0, tt.days), updated.EstimatedReturnDate)
			require.Equal(t, tt.status, updated.Status, "extension must not change the status")
		})
	}

	t.Run("another organization", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := newTestService(store)
		res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
		require.NoError(t, err)

		_, err = svc.ExtendReservation(context.Background(), model.ExtendReservationRequest{
			ReservationID: res.ID,
			OrgID:         uuid.New(),
			Days:          3,
			Motivation:    "x",
		})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestReservationService_ReturnMaterials(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()
	returnDate := model.NewDate(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))

	setup := func(t *testing.T) (*fakeStore, *service.ReservationService, model.Reservation) {
		t.Helper()
		store := newFakeStore()
		svc := newTestService(store)
		res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
		require.NoError(t, err)
		return store, svc, res
	}

	deliver := func(t *testing.T, svc *service.ReservationService, res model.Reservation) model.Reservation {
		t.Helper()
		assignments := make([]model.DeliveryAssignment, 0, len(res.Items))
		for _, it := range res.Items {
			assignments = append(assignments, model.DeliveryAssignment{
				ReservationItemID: it.ID,
				ItemID:            uuid.New(),
			})
		}
		delivered, err := svc.DeliverMaterials(context.Background(), model.DeliverMaterialsRequest{
			ReservationID: res.ID,
			OrgID:         orgID,
			DeliveredBy:   res.CreatedBy,
			Assignments:   assignments,
		})
		require.NoError(t, err)
		return delivered
	}

	inspectAll := func(res model.Reservation) []model.InspectionInput {
		var out []model.InspectionInput
		for _, it := range res.DeliveredItems() {
			out = append(out, model.InspectionInput{
				ReservationItemID: it.ID,
				Status:            model.InspectionOK,
			})
		}
		return out
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		_, svc, res := setup(t)
		delivered := deliver(t, svc, res)

		returned, err := svc.ReturnMaterials(context.Background(), model.ReturnMaterialsRequest{
			ReservationID:    res.ID,
			OrgID:            orgID,
			InspectorID:      res.CreatedBy,
			ActualReturnDate: returnDate,
			Inspections:      inspectAll(delivered),
		})
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, returned.Status)
		require.NotNil(t, returned.ActualReturnDate)
		require.Equal(t, returnDate.Time, *returned.ActualReturnDate)
	})

	t.Run("pending reservation", func(t *testing.T) {
		t.Parallel()
		store, svc, res := setup(t)
		writesBefore := store.writeCount()

		_, err := svc.ReturnMaterials(context.Background(), model.ReturnMaterialsRequest{
			ReservationID:    res.ID,
			OrgID:            orgID,
			ActualReturnDate: returnDate,
		})
		require.EqualError(t, err, "cannot return reservation with status: pending")
		require.True(t, errs.IsValidation(err))
		require.Equal(t, writesBefore, store.writeCount())
	})

	t.Run("missing inspection", func(t *testing.T) {
		t.Parallel()
		store, svc, res := setup(t)
		delivered := deliver(t, svc, res)
		writesBefore := store.writeCount()

		inspections := inspectAll(delivered)[:1]
		_, err := svc.ReturnMaterials(context.Background(), model.ReturnMaterialsRequest{
			ReservationID:    res.ID,
			OrgID:            orgID,
			ActualReturnDate: returnDate,
			Inspections:      inspections,
		})
		require.EqualError(t, err, "all delivered items must be inspected")
		require.Equal(t, writesBefore, store.writeCount())
	})

	t.Run("inspection for unknown line", func(t *testing.T) {
		t.Parallel()
		store, svc, res := setup(t)
		delivered := deliver(t, svc, res)
		writesBefore := store.writeCount()

		inspections := inspectAll(delivered)
		stray := uuid.New()
		inspections[1].ReservationItemID = stray
		_, err := svc.ReturnMaterials(context.Background(), model.ReturnMaterialsRequest{
			ReservationID:    res.ID,
			OrgID:            orgID,
			ActualReturnDate: returnDate,
			Inspections:      inspections,
		})
		require.EqualError(t, err, "inspection does not match a delivered item: "+stray.String())
		require.Equal(t, writesBefore, store.writeCount())
	})

	t.Run("duplicate inspection", func(t *testing.T) {
		t.Parallel()
		store, svc, res := setup(t)
		delivered := deliver(t, svc, res)
		writesBefore := store.writeCount()

		inspections := inspectAll(delivered)
		inspections[1].ReservationItemID = inspections[0].ReservationItemID
		_, err := svc.ReturnMaterials(context.Background(), model.ReturnMaterialsRequest{
			ReservationID:    res.ID,
			OrgID:            orgID,
			ActualReturnDate: returnDate,
			Inspections:      inspections,
		})
		require.EqualError(t, err, "inspection does not match a delivered item: "+inspections[1].ReservationItemID.String())
		require.Equal(t, writesBefore, store.writeCount())
	})
}

func TestReservationService_DeliverMaterials(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := newTestService(store)
		res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
		require.NoError(t, err)

		delivered, err := svc.DeliverMaterials(context.Background(), model.DeliverMaterialsRequest{
			ReservationID: res.ID,
			OrgID:         orgID,
			DeliveredBy:   res.CreatedBy,
			Assignments: []model.DeliveryAssignment{
				{ReservationItemID: res.Items[0].ID, ItemID: uuid.New()},
				{ReservationItemID: res.Items[1].ID, ItemID: uuid.New()},
			},
		})
		require.NoError(t, err)
		require.Equal(t, model.StatusDelivered, delivered.Status)
		require.Len(t, delivered.DeliveredItems(), 2)
	})

	t.Run("already delivered", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := newTestService(store)
		res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
		require.NoError(t, err)
		store.reservations[res.ID] = withStatus(store.reservations[res.ID], model.StatusDelivered)

		_, err = svc.DeliverMaterials(context.Background(), model.DeliverMaterialsRequest{
			ReservationID: res.ID,
			OrgID:         orgID,
			Assignments:   []model.DeliveryAssignment{{ReservationItemID: res.Items[0].ID, ItemID: uuid.New()}},
		})
		require.EqualError(t, err, "cannot deliver reservation with status: delivered")
	})

	t.Run("assignment for unknown line", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		svc := newTestService(store)
		res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
		require.NoError(t, err)

		stray := uuid.New()
		_, err = svc.DeliverMaterials(context.Background(), model.DeliverMaterialsRequest{
			ReservationID: res.ID,
			OrgID:         orgID,
			Assignments:   []model.DeliveryAssignment{{ReservationItemID: stray, ItemID: uuid.New()}},
		})
		require.EqualError(t, err, "assignment does not match an undelivered line: "+stray.String())
	})
}

func TestReservationService_UpdateStatus(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()

	tests := []struct {
		name    string
		from    model.Status
		to      model.Status
		wantErr string
	}{
		{name: "delivered to in_use", from: model.StatusDelivered, to: model.StatusInUse},
		{name: "delayed to in_use", from: model.StatusDelayed, to: model.StatusInUse},
		{name: "returned to completed", from: model.StatusReturned, to: model.StatusCompleted},
		{name: "pending to in_use", from: model.StatusPending, to: model.StatusInUse, wantErr: "cannot update reservation with status: pending"},
		{name: "completed to in_use", from: model.StatusCompleted, to: model.StatusInUse, wantErr: "cannot update reservation with status: completed"},
		{name: "unknown status", from: model.StatusPending, to: model.Status("shipped"), wantErr: "unknown status: shipped"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			svc := newTestService(store)
			res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
			require.NoError(t, err)
			store.reservations[res.ID] = withStatus(store.reservations[res.ID], tt.from)

			updated, err := svc.UpdateStatus(context.Background(), model.UpdateStatusRequest{
				ReservationID: res.ID,
				OrgID:         orgID,
				PerformedBy:   res.CreatedBy,
				Status:        tt.to,
			})
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				require.True(t, errs.IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestReservationService_CancelReservation(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()

	tests := []struct {
		name    string
		from    model.Status
		wantErr string
	}{
		{name: "pending", from: model.StatusPending},
		{name: "delivered", from: model.StatusDelivered},
		{name: "delayed", from: model.StatusDelayed},
		{name: "returned", from: model.StatusReturned, wantErr: "cannot cancel reservation with status: returned"},
		{name: "completed", from: model.StatusCompleted, wantErr: "cannot cancel reservation with status: completed"},
		{name: "cancelled twice", from: model.StatusCancelled, wantErr: "cannot cancel reservation with status: cancelled"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			svc := newTestService(store)
			res, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
			require.NoError(t, err)
			store.reservations[res.ID] = withStatus(store.reservations[res.ID], tt.from)

			updated, err := svc.CancelReservation(context.Background(), model.CancelReservationRequest{
				ReservationID: res.ID,
				OrgID:         orgID,
				PerformedBy:   res.CreatedBy,
			})
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.StatusCancelled, updated.Status)
		})
	}
}

func TestReservationService_MarkOverdue(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()
	store := newFakeStore()
	svc := newTestService(store)

	overdue, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
	require.NoError(t, err)
	store.reservations[overdue.ID] = withStatus(store.reservations[overdue.ID], model.StatusDelivered)

	onTime, err := svc.CreateReservation(context.Background(), validCreateReq(orgID))
	require.NoError(t, err)
	current := withStatus(store.reservations[onTime.ID], model.StatusDelivered)
	current.EstimatedReturnDate = overdue.EstimatedReturnDate.AddDate(0, 0, 30)
	store.reservations[onTime.ID] = current

	asOf := overdue.EstimatedReturnDate.AddDate(0, 0, 1)
	n, err := svc.MarkOverdue(context.Background(), asOf)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// A second sweep finds nothing: delayed reservations stay delayed.
	n, err = svc.MarkOverdue(context.Background(), asOf)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReservationService_Lifecycle(t *testing.T) {
	t.Parallel()
	orgID := uuid.New()
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, validCreateReq(orgID))
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, res.Status)

	// Returning before delivery is rejected.
	_, err = svc.ReturnMaterials(ctx, model.ReturnMaterialsRequest{
		ReservationID:    res.ID,
		OrgID:            orgID,
		ActualReturnDate: model.NewDate(time.Now()),
	})
	require.EqualError(t, err, "cannot return reservation with status: pending")

	// An extension while pending pushes the estimated date.
	extended, err := svc.ExtendReservation(ctx, model.ExtendReservationRequest{
		ReservationID: res.ID,
		OrgID:         orgID,
		ExtendedBy:    res.CreatedBy,
		Days:          2,
		Motivation:    "forecast",
	})
	require.NoError(t, err)
	require.Equal(t, res.EstimatedReturnDate.AddDate(0, 0, 2), extended.EstimatedReturnDate)

	delivered, err := svc.DeliverMaterials(ctx, model.DeliverMaterialsRequest{
		ReservationID: res.ID,
		OrgID:         orgID,
		DeliveredBy:   res.CreatedBy,
		Assignments: []model.DeliveryAssignment{
			{ReservationItemID: res.Items[0].ID, ItemID: uuid.New()},
			{ReservationItemID: res.Items[1].ID, ItemID: uuid.New()},
		},
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusDelivered, delivered.Status)

	var inspections []model.InspectionInput
	for _, it := range delivered.DeliveredItems() {
		inspections = append(inspections, model.InspectionInput{
			ReservationItemID: it.ID,
			Status:            model.InspectionOK,
		})
	}
	returned, err := svc.ReturnMaterials(ctx, model.ReturnMaterialsRequest{
		ReservationID:    res.ID,
		OrgID:            orgID,
		InspectorID:      res.CreatedBy,
		ActualReturnDate: model.NewDate(time.Now()),
		Inspections:      inspections,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, returned.Status)

	completed, err := svc.UpdateStatus(ctx, model.UpdateStatusRequest{
		ReservationID: res.ID,
		OrgID:         orgID,
		PerformedBy:   res.CreatedBy,
		Status:        model.StatusCompleted,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, completed.Status)
}

func withStatus(r model.Reservation, s model.Status) model.Reservation {
	r.Status = s
	return r
}
