package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
)

type InventoryStore interface {
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error)
	ListCategories(ctx context.Context, orgID uuid.UUID) ([]model.Category, error)
	GetCategory(ctx context.Context, orgID, id uuid.UUID) (model.Category, error)
	CreateItem(ctx context.Context, req model.CreateItemRequest) (model.Item, error)
	GetItem(ctx context.Context, orgID, id uuid.UUID) (model.Item, error)
	ListItems(ctx context.Context, f model.ItemFilter) (model.ItemList, error)
	UpdateItem(ctx context.Context, req model.UpdateItemRequest) (model.Item, error)
}

const categoriesTableName = `categories`

type inventoryRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewInventoryRepository(db *sqlx.DB, log *zap.Logger) (*inventoryRepo, error) {
	return &inventoryRepo{
		db:  db,
		log: log.Named("inventory-repo"),
	}, nil
}

func (r *inventoryRepo) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	q, args, err := qb.Insert(categoriesTableName).
		Columns("id", "org_id", "name", "description").
		Values(uuid.New(), req.OrgID, req.Name, req.Description).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var cat model.Category
	if err := r.db.GetContext(ctx, &cat, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, errs.ErrAlreadyExists
		}
		return model.Category{}, err
	}
	return cat, nil
}

func (r *inventoryRepo) ListCategories(ctx context.Context, orgID uuid.UUID) ([]model.Category, error) {
	q, args, err := qb.Select("*").
		From(categoriesTableName).
		Where(sq.Eq{"org_id": orgID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	cats := []model.Category{}
	if err := r.db.SelectContext(ctx, &cats, q, args...); err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *inventoryRepo) GetCategory(ctx context.Context, orgID, id uuid.UUID) (model.Category, error) {
	q, args, err := qb.Select("*").
		From(categoriesTableName).
		Where(sq.Eq{"org_id": orgID, "id": id}).
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var cat model.Category
	if err := r.db.GetContext(ctx, &cat, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, errs.ErrNotFound
		}
		return model.Category{}, err
	}
	return cat, nil
}

func (r *inventoryRepo) CreateItem(ctx context.Context, req model.CreateItemRequest) (model.Item, error) {
	q, args, err := qb.Insert(itemsTableName).
		Columns("id", "org_id", "category_id", "name", "code", "condition").
		Values(uuid.New(), req.OrgID, req.CategoryID, req.Name, req.Code, req.Condition).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var item model.Item
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Item{}, errs.ErrAlreadyExists
		}
		return model.Item{}, err
	}
	return item, nil
}

func (r *inventoryRepo) GetItem(ctx context.Context, orgID, id uuid.UUID) (model.Item, error) {
	q, args, err := qb.Select("*").
		From(itemsTableName).
		Where(sq.Eq{"org_id": orgID, "id": id}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var item model.Item
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.ErrNotFound
		}
		return model.Item{}, err
	}
	return item, nil
}

func (r *inventoryRepo) ListItems(ctx context.Context, f model.ItemFilter) (model.ItemList, error) {
	where := []sq.Sqlizer{sq.Eq{"org_id": f.OrgID}}
	if f.CategoryID != nil {
		where = append(where, sq.Eq{"category_id": *f.CategoryID})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": *f.Status})
	}

	countQ := qb.Select("count(*)").From(itemsTableName)
	listQ := qb.Select("*").From(itemsTableName)
	for _, w := range where {
		countQ = countQ.Where(w)
		listQ = listQ.Where(w)
	}

	q, args, err := countQ.ToSql()
	if err != nil {
		return model.ItemList{}, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return model.ItemList{}, err
	}

	listQ = listQ.OrderBy("code")
	if f.Page != 0 && f.Limit != 0 {
		listQ = listQ.Limit(uint64(f.Limit)).Offset(uint64((f.Page - 1) * f.Limit))
	}
	q, args, err = listQ.ToSql()
	if err != nil {
		return model.ItemList{}, err
	}
	items := []model.Item{}
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return model.ItemList{}, err
	}
	return model.ItemList{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Limit,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *inventoryRepo) UpdateItem(ctx context.Context, req model.UpdateItemRequest) (model.Item, error) {
	upd := qb.Update(itemsTableName).
		Where(sq.Eq{"org_id": req.OrgID, "id": req.ItemID})
	if req.Name != nil {
		upd = upd.Set("name", *req.Name)
	}
	if req.Status != nil {
		upd = upd.Set("status", *req.Status)
	}
	if req.Condition != nil {
		upd = upd.Set("condition", *req.Condition)
	}
	q, args, err := upd.Suffix("returning *").ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var item model.Item
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.ErrNotFound
		}
		return model.Item{}, err
	}
	return item, nil
}
