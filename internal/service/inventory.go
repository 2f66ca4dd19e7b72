package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/repository"
)

type InventoryService struct {
	log  *zap.Logger
	repo repository.InventoryStore
}

func NewInventoryService(repo repository.InventoryStore, log *zap.Logger) *InventoryService {
	return &InventoryService{
		log:  log,
		repo: repo,
	}
}

func (s *InventoryService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	return s.repo.CreateCategory(ctx, req)
}

func (s *InventoryService) ListCategories(ctx context.Context, orgID uuid.UUID) ([]model.Category, error) {
	return s.repo.ListCategories(ctx, orgID)
}

func (s *InventoryService) CreateItem(ctx context.Context, req model.CreateItemRequest) (model.Item, error) {
	// Reject items pointing at another org's category.
	if _, err := s.repo.GetCategory(ctx, req.OrgID, req.CategoryID); err != nil {
		return model.Item{}, err
	}
	return s.repo.CreateItem(ctx, req)
}

func (s *InventoryService) GetItem(ctx context.Context, orgID, id uuid.UUID) (model.Item, error) {
	return s.repo.GetItem(ctx, orgID, id)
}

func (s *InventoryService) ListItems(ctx context.Context, f model.ItemFilter) (model.ItemList, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.repo.ListItems(ctx, f)
}

func (s *InventoryService) UpdateItem(ctx context.Context, req model.UpdateItemRequest) (model.Item, error) {
	if req.Name == nil && req.Status == nil && req.Condition == nil {
		return model.Item{}, errs.Validation("no fields to update")
	}
	if req.Status != nil {
		switch *req.Status {
		case model.ItemAvailable, model.ItemReserved, model.ItemMaintenance, model.ItemRetired:
		default:
			return model.Item{}, errs.Validation("unknown item status: %s", *req.Status)
		}
	}
	return s.repo.UpdateItem(ctx, req)
}
