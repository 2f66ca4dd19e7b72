package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
)

// ReservationStore is the persistence gateway for the reservation
// aggregate. Every mutating call reloads and returns the full
// aggregate with all relations.
type ReservationStore interface {
	Create(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	FindByID(ctx context.Context, id uuid.UUID) (model.Reservation, error)
	FindMany(ctx context.Context, f model.ReservationFilter) (model.ReservationList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, version int, status model.Status, performedBy *uuid.UUID, action string, notes *string) (model.Reservation, error)
	DeliverMaterials(ctx context.Context, version int, req model.DeliverMaterialsRequest) (model.Reservation, error)
	ReturnMaterials(ctx context.Context, version int, req model.ReturnMaterialsRequest) (model.Reservation, error)
	ExtendReservation(ctx context.Context, version int, req model.ExtendReservationRequest) (model.Reservation, error)
	Cancel(ctx context.Context, version int, req model.CancelReservationRequest) (model.Reservation, error)
	MarkOverdue(ctx context.Context, asOf time.Time) ([]uuid.UUID, error)
}

const (
	reservationTableName  = `reservations`
	resItemsTableName     = `reservation_items`
	resLocationsTableName = `reservation_locations`
	resExtTableName       = `reservation_extensions`
	resActivityTableName  = `reservation_activity`
	resPartsTableName     = `reservation_participants`
	inspectionsTableName  = `inspections`
	itemsTableName        = `items`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type reservationRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewReservationRepository(db *sqlx.DB, log *zap.Logger) (*reservationRepo, error) {
	return &reservationRepo{
		db:  db,
		log: log.Named("reservation-repo"),
	}, nil
}

func (r *reservationRepo) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *reservationRepo) Create(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	id := uuid.New()
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := qb.Insert(reservationTableName).
			Columns("id", "org_id", "responsible_id", "created_by", "start_date", "estimated_return_date", "purpose", "status").
			Values(id, req.OrgID, req.ResponsibleID, req.CreatedBy,
				req.StartDate.Format(time.DateOnly), req.EstimatedDate.Format(time.DateOnly),
				req.Purpose, model.StatusPending).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return errors.Wrap(err, "insert reservation")
		}

		for i, it := range req.Items {
			q, args, err := qb.Insert(resItemsTableName).
				Columns("id", "reservation_id", "category_id", "position", "quantity", "notes").
				Values(uuid.New(), id, it.CategoryID, i, it.Quantity, it.Notes).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return errors.Wrap(err, "insert reservation item")
			}
		}
		for _, loc := range req.Locations {
			q, args, err := qb.Insert(resLocationsTableName).
				Columns("id", "reservation_id", "location", "description").
				Values(uuid.New(), id, loc.Location, loc.Description).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return errors.Wrap(err, "insert reservation location")
			}
		}
		for _, userID := range req.Participants {
			q, args, err := qb.Insert(resPartsTableName).
				Columns("reservation_id", "user_id").
				Values(id, userID).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return errors.Wrap(err, "insert participant")
			}
		}
		return r.insertActivity(ctx, tx, id, model.ActionCreated, &req.CreatedBy, nil)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *reservationRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Reservation, error) {
	q, args, err := qb.Select("*").
		From(reservationTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	if err := r.loadRelations(ctx, &res); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *reservationRepo) loadRelations(ctx context.Context, res *model.Reservation) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, args, err := qb.Select("*").
			From(resItemsTableName).
			Where(sq.Eq{"reservation_id": res.ID}).
			OrderBy("position").
			ToSql()
		if err != nil {
			return err
		}
		res.Items = []model.ReservationItem{}
		if err := r.db.SelectContext(ctx, &res.Items, q, args...); err != nil {
			return errors.Wrap(err, "load items")
		}

		q, args, err = qb.Select("i.id", "i.reservation_item_id", "i.status", "i.notes", "i.photos", "i.created_at").
			From(inspectionsTableName + " i").
			Join(resItemsTableName + " ri on ri.id = i.reservation_item_id").
			Where(sq.Eq{"ri.reservation_id": res.ID}).
			ToSql()
		if err != nil {
			return err
		}
		var inspections []model.Inspection
		if err := r.db.SelectContext(ctx, &inspections, q, args...); err != nil {
			return errors.Wrap(err, "load inspections")
		}
		byItem := make(map[uuid.UUID][]model.Inspection)
		for _, ins := range inspections {
			byItem[ins.ReservationItemID] = append(byItem[ins.ReservationItemID], ins)
		}
		for i := range res.Items {
			res.Items[i].Inspections = byItem[res.Items[i].ID]
		}
		return nil
	})

	g.Go(func() error {
		q, args, err := qb.Select("*").
			From(resLocationsTableName).
			Where(sq.Eq{"reservation_id": res.ID}).
			OrderBy("location").
			ToSql()
		if err != nil {
			return err
		}
		res.Locations = []model.ReservationLocation{}
		return errors.Wrap(r.db.SelectContext(ctx, &res.Locations, q, args...), "load locations")
	})

	g.Go(func() error {
		q, args, err := qb.Select("*").
			From(resExtTableName).
			Where(sq.Eq{"reservation_id": res.ID}).
			OrderBy("created_at").
			ToSql()
		if err != nil {
			return err
		}
		res.Extensions = []model.ReservationExtension{}
		return errors.Wrap(r.db.SelectContext(ctx, &res.Extensions, q, args...), "load extensions")
	})

	g.Go(func() error {
		q, args, err := qb.Select("*").
			From(resActivityTableName).
			Where(sq.Eq{"reservation_id": res.ID}).
			OrderBy("created_at").
			ToSql()
		if err != nil {
			return err
		}
		res.Activity = []model.ReservationActivity{}
		return errors.Wrap(r.db.SelectContext(ctx, &res.Activity, q, args...), "load activity")
	})

	g.Go(func() error {
		q, args, err := qb.Select("user_id").
			From(resPartsTableName).
			Where(sq.Eq{"reservation_id": res.ID}).
			ToSql()
		if err != nil {
			return err
		}
		res.Participants = []uuid.UUID{}
		return errors.Wrap(r.db.SelectContext(ctx, &res.Participants, q, args...), "load participants")
	})

	return g.Wait()
}

func (r *reservationRepo) FindMany(ctx context.Context, f model.ReservationFilter) (model.ReservationList, error) {
	where := []sq.Sqlizer{sq.Eq{"org_id": f.OrgID}}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": *f.Status})
	}
	if f.UserID != nil {
		where = append(where, sq.Or{sq.Eq{"responsible_id": *f.UserID}, sq.Eq{"created_by": *f.UserID}})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"start_date": f.From.Format(time.DateOnly)})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"start_date": f.To.Format(time.DateOnly)})
	}

	countQ := qb.Select("count(*)").From(reservationTableName)
	listQ := qb.Select("*").From(reservationTableName)
	for _, w := range where {
		countQ = countQ.Where(w)
		listQ = listQ.Where(w)
	}

	q, args, err := countQ.ToSql()
	if err != nil {
		return model.ReservationList{}, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return model.ReservationList{}, err
	}

	listQ = listQ.OrderBy("created_at desc")
	if f.Page != 0 && f.Limit != 0 {
		listQ = listQ.Limit(uint64(f.Limit)).Offset(uint64((f.Page - 1) * f.Limit))
	}
	q, args, err = listQ.ToSql()
	if err != nil {
		return model.ReservationList{}, err
	}
	r.log.Debug("FindMany", zap.String("query", q), zap.Any("args", args))

	items := []model.Reservation{}
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return model.ReservationList{}, err
	}
	for i := range items {
		if err := r.loadRelations(ctx, &items[i]); err != nil {
			return model.ReservationList{}, err
		}
	}

	return model.ReservationList{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Limit,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

// bumpStatus performs the version-guarded status transition. Zero rows
// means the caller raced another writer.
func (r *reservationRepo) bumpStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, version int, status model.Status, extra map[string]interface{}) error {
	upd := qb.Update(reservationTableName).
		Set("status", status).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "version": version})
	for col, val := range extra {
		upd = upd.Set(col, val)
	}
	q, args, err := upd.ToSql()
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "update reservation")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrConflict
	}
	return nil
}

func (r *reservationRepo) insertActivity(ctx context.Context, tx *sqlx.Tx, resID uuid.UUID, action string, performedBy *uuid.UUID, notes *string) error {
	q, args, err := qb.Insert(resActivityTableName).
		Columns("id", "reservation_id", "action", "performed_by", "notes").
		Values(uuid.New(), resID, action, performedBy, notes).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, "insert activity")
	}
	return nil
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, version int, status model.Status, performedBy *uuid.UUID, action string, notes *string) (model.Reservation, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.bumpStatus(ctx, tx, id, version, status, nil); err != nil {
			return err
		}
		return r.insertActivity(ctx, tx, id, action, performedBy, notes)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return r.FindByID(ctx, id)
}

func (r *reservationRepo) DeliverMaterials(ctx context.Context, version int, req model.DeliverMaterialsRequest) (model.Reservation, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, a := range req.Assignments {
			// Bind only items of the requested category, same org, still available.
			q := `update items i
				set status = 'reserved'
				from reservation_items ri
				join reservations res on res.id = ri.reservation_id
				where ri.id = $1 and ri.reservation_id = $2 and i.id = $3
				  and i.category_id = ri.category_id and i.org_id = res.org_id
				  and i.status = 'available'`
			result, err := tx.ExecContext(ctx, q, a.ReservationItemID, req.ReservationID, a.ItemID)
			if err != nil {
				return errors.Wrap(err, "reserve item")
			}
			n, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return errs.Validation("item %s is not available for line %s", a.ItemID, a.ReservationItemID)
			}

			q, args, err := qb.Update(resItemsTableName).
				Set("item_id", a.ItemID).
				Set("delivered_by", req.DeliveredBy).
				Where(sq.Eq{"id": a.ReservationItemID, "reservation_id": req.ReservationID}).
				Where("item_id is null").
				ToSql()
			if err != nil {
				return err
			}
			result, err = tx.ExecContext(ctx, q, args...)
			if err != nil {
				return errors.Wrap(err, "bind item")
			}
			n, err = result.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return errs.Validation("reservation line %s is already delivered", a.ReservationItemID)
			}
		}
		if err := r.bumpStatus(ctx, tx, req.ReservationID, version, model.StatusDelivered, nil); err != nil {
			return err
		}
		return r.insertActivity(ctx, tx, req.ReservationID, model.ActionDelivered, &req.DeliveredBy, nil)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return r.FindByID(ctx, req.ReservationID)
}

func (r *reservationRepo) ReturnMaterials(ctx context.Context, version int, req model.ReturnMaterialsRequest) (model.Reservation, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, ins := range req.Inspections {
			q, args, err := qb.Insert(inspectionsTableName).
				Columns("id", "reservation_item_id", "status", "notes", "photos").
				Values(uuid.New(), ins.ReservationItemID, ins.Status, ins.Notes, model.Photos(ins.Photos)).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return errors.Wrap(err, "insert inspection")
			}

			itemStatus := model.ItemAvailable
			if ins.Status == model.InspectionDamaged {
				itemStatus = model.ItemMaintenance
			}
			free := `update items i
				set status = $1
				from reservation_items ri
				where ri.id = $2 and i.id = ri.item_id`
			if _, err := tx.ExecContext(ctx, free, itemStatus, ins.ReservationItemID); err != nil {
				return errors.Wrap(err, "release item")
			}
		}
		extra := map[string]interface{}{
			"actual_return_date": req.ActualReturnDate.Format(time.DateOnly),
		}
		if err := r.bumpStatus(ctx, tx, req.ReservationID, version, model.StatusReturned, extra); err != nil {
			return err
		}
		return r.insertActivity(ctx, tx, req.ReservationID, model.ActionReturned, &req.InspectorID, nil)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return r.FindByID(ctx, req.ReservationID)
}

func (r *reservationRepo) ExtendReservation(ctx context.Context, version int, req model.ExtendReservationRequest) (model.Reservation, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := qb.Insert(resExtTableName).
			Columns("id", "reservation_id", "days", "motivation", "extended_by").
			Values(uuid.New(), req.ReservationID, req.Days, req.Motivation, req.ExtendedBy).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return errors.Wrap(err, "insert extension")
		}

		upd := `update reservations
			set estimated_return_date = estimated_return_date + ($1 * interval '1 day'),
			    version = version + 1,
			    updated_at = now()
			where id = $2 and version = $3`
		result, err := tx.ExecContext(ctx, upd, req.Days, req.ReservationID, version)
		if err != nil {
			return errors.Wrap(err, "extend return date")
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.ErrConflict
		}
		return r.insertActivity(ctx, tx, req.ReservationID, model.ActionExtended, &req.ExtendedBy, &req.Motivation)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return r.FindByID(ctx, req.ReservationID)
}

func (r *reservationRepo) Cancel(ctx context.Context, version int, req model.CancelReservationRequest) (model.Reservation, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		free := `update items i
			set status = 'available'
			from reservation_items ri
			where ri.reservation_id = $1 and i.id = ri.item_id and i.status = 'reserved'`
		if _, err := tx.ExecContext(ctx, free, req.ReservationID); err != nil {
			return errors.Wrap(err, "release items")
		}
		if err := r.bumpStatus(ctx, tx, req.ReservationID, version, model.StatusCancelled, nil); err != nil {
			return err
		}
		return r.insertActivity(ctx, tx, req.ReservationID, model.ActionCancelled, &req.PerformedBy, req.Notes)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return r.FindByID(ctx, req.ReservationID)
}

func (r *reservationRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q := `update reservations
			set status = 'delayed', version = version + 1, updated_at = now()
			where status in ('delivered', 'in_use') and estimated_return_date < $1
			returning id`
		if err := tx.SelectContext(ctx, &ids, q, asOf.Format(time.DateOnly)); err != nil {
			return errors.Wrap(err, "mark overdue")
		}
		for _, id := range ids {
			if err := r.insertActivity(ctx, tx, id, model.ActionDelayed, nil, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
