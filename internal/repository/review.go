package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/model"
)

type ReviewStore interface {
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error)
	ListReviews(ctx context.Context, orgID, itemID uuid.UUID) ([]model.Review, error)
}

const (
	reviewsTableName      = `reviews`
	reviewChecksTableName = `review_checks`
)

type reviewRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewReviewRepository(db *sqlx.DB, log *zap.Logger) (*reviewRepo, error) {
	return &reviewRepo{
		db:  db,
		log: log.Named("review-repo"),
	}, nil
}

func (r *reviewRepo) CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Review{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(reviewsTableName).
		Columns("id", "org_id", "item_id", "reviewer_id", "status", "notes").
		Values(uuid.New(), req.OrgID, req.ItemID, req.ReviewerID, req.Status, req.Notes).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var review model.Review
	if err := tx.GetContext(ctx, &review, q, args...); err != nil {
		return model.Review{}, errors.Wrap(err, "insert review")
	}

	review.Checks = make([]model.ReviewCheck, 0, len(req.Checks))
	for _, check := range req.Checks {
		q, args, err := qb.Insert(reviewChecksTableName).
			Columns("id", "review_id", "label", "passed", "notes").
			Values(uuid.New(), review.ID, check.Label, check.Passed, check.Notes).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return model.Review{}, err
		}
		var rc model.ReviewCheck
		if err := tx.GetContext(ctx, &rc, q, args...); err != nil {
			return model.Review{}, errors.Wrap(err, "insert review check")
		}
		review.Checks = append(review.Checks, rc)
	}

	// A damaged verdict pulls the item out of circulation.
	if req.Status == model.InspectionDamaged {
		q, args, err := qb.Update(itemsTableName).
			Set("status", model.ItemMaintenance).
			Where(sq.Eq{"org_id": req.OrgID, "id": req.ItemID}).
			ToSql()
		if err != nil {
			return model.Review{}, err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return model.Review{}, errors.Wrap(err, "flag item for maintenance")
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (r *reviewRepo) ListReviews(ctx context.Context, orgID, itemID uuid.UUID) ([]model.Review, error) {
	q, args, err := qb.Select("*").
		From(reviewsTableName).
		Where(sq.Eq{"org_id": orgID, "item_id": itemID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	reviews := []model.Review{}
	if err := r.db.SelectContext(ctx, &reviews, q, args...); err != nil {
		return nil, err
	}
	for i := range reviews {
		q, args, err := qb.Select("*").
			From(reviewChecksTableName).
			Where(sq.Eq{"review_id": reviews[i].ID}).
			ToSql()
		if err != nil {
			return nil, err
		}
		reviews[i].Checks = []model.ReviewCheck{}
		if err := r.db.SelectContext(ctx, &reviews[i].Checks, q, args...); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}
