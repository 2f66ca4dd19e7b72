package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
)

func newMockRepo(t *testing.T, opts ...func(*sqlmock.Sqlmock)) (*reservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	for _, opt := range opts {
		opt(&mock)
	}
	repo, err := NewReservationRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

func unordered(m *sqlmock.Sqlmock) {
	(*m).MatchExpectationsInOrder(false)
}

func emptyRelations(mock sqlmock.Sqlmock, resID uuid.UUID) {
	mock.ExpectQuery(`FROM reservation_items WHERE`).
		WithArgs(resID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "category_id", "position", "quantity", "notes", "item_id", "delivered_by"}))
	mock.ExpectQuery(`FROM inspections`).
		WithArgs(resID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_item_id", "status", "notes", "photos", "created_at"}))
	mock.ExpectQuery(`FROM reservation_locations`).
		WithArgs(resID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "location", "description"}))
	mock.ExpectQuery(`FROM reservation_extensions`).
		WithArgs(resID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "days", "motivation", "extended_by", "created_at"}))
	mock.ExpectQuery(`FROM reservation_activity`).
		WithArgs(resID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "action", "performed_by", "notes", "created_at"}))
	mock.ExpectQuery(`FROM reservation_participants`).
		WithArgs(resID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
}

func TestReservationRepo_FindByID(t *testing.T) {
	ctx := context.Background()
	resID := uuid.New()
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("ok", func(t *testing.T) {
		// Relations load concurrently, so expectation order is relaxed.
		repo, mock := newMockRepo(t, unordered)

		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "org_id", "responsible_id", "created_by",
			"start_date", "estimated_return_date", "actual_return_date",
			"purpose", "status", "version", "created_at", "updated_at",
		}).AddRow(
			resID.String(), orgID.String(), userID.String(), userID.String(),
			now, now.AddDate(0, 0, 5), nil,
			nil, "pending", 1, now, now,
		)
		mock.ExpectQuery(`SELECT \* FROM reservations WHERE id = \$1`).
			WithArgs(resID).
			WillReturnRows(rows)
		emptyRelations(mock, resID)

		res, err := repo.FindByID(ctx, resID)
		require.NoError(t, err)
		require.Equal(t, resID, res.ID)
		require.Equal(t, model.StatusPending, res.Status)
		require.Equal(t, 1, res.Version)
		require.Empty(t, res.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT \* FROM reservations WHERE id = \$1`).
			WithArgs(resID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(ctx, resID)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepo_FindMany(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	status := model.StatusPending

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM reservations WHERE org_id = \$1 AND status = \$2`).
		WithArgs(orgID, status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM reservations WHERE org_id = \$1 AND status = \$2 ORDER BY created_at desc LIMIT 20 OFFSET 0`).
		WithArgs(orgID, status).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := repo.FindMany(ctx, model.ReservationFilter{
		OrgID:  orgID,
		Status: &status,
		Page:   1,
		Limit:  20,
	})
	require.NoError(t, err)
	require.Zero(t, list.TotalElements)
	require.Empty(t, list.Items)
	require.Equal(t, 1, list.Page)
	require.Equal(t, 20, list.PageSize)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_UpdateStatus_Conflict(t *testing.T) {
	ctx := context.Background()
	resID := uuid.New()
	userID := uuid.New()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	// A stale version matches no rows.
	mock.ExpectExec(`UPDATE reservations SET status = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(ctx, resID, 1, model.StatusInUse, &userID, model.ActionStatus, nil)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_ExtendReservation_Conflict(t *testing.T) {
	ctx := context.Background()
	req := model.ExtendReservationRequest{
		ReservationID: uuid.New(),
		OrgID:         uuid.New(),
		ExtendedBy:    uuid.New(),
		Days:          3,
		Motivation:    "weather",
	}

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO reservation_extensions`).
		WithArgs(sqlmock.AnyArg(), req.ReservationID, req.Days, req.Motivation, req.ExtendedBy).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`set estimated_return_date = estimated_return_date`).
		WithArgs(req.Days, req.ReservationID, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.ExtendReservation(ctx, 1, req)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_DeliverMaterials_ItemUnavailable(t *testing.T) {
	ctx := context.Background()
	req := model.DeliverMaterialsRequest{
		ReservationID: uuid.New(),
		OrgID:         uuid.New(),
		DeliveredBy:   uuid.New(),
		Assignments: []model.DeliveryAssignment{
			{ReservationItemID: uuid.New(), ItemID: uuid.New()},
		},
	}

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`update items i`).
		WithArgs(req.Assignments[0].ReservationItemID, req.ReservationID, req.Assignments[0].ItemID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeliverMaterials(ctx, 1, req)
	require.Error(t, err)
	require.True(t, errs.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	id1, id2 := uuid.New(), uuid.New()
	asOf := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`set status = 'delayed'`).
		WithArgs(asOf.Format(time.DateOnly)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(id1.String()).
			AddRow(id2.String()))
	mock.ExpectExec(`INSERT INTO reservation_activity`).
		WithArgs(sqlmock.AnyArg(), id1, model.ActionDelayed, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO reservation_activity`).
		WithArgs(sqlmock.AnyArg(), id2, model.ActionDelayed, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ids, err := repo.MarkOverdue(ctx, asOf)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{id1, id2}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}
