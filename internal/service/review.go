package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/repository"
)

type ReviewService struct {
	log       *zap.Logger
	repo      repository.ReviewStore
	inventory repository.InventoryStore
}

func NewReviewService(repo repository.ReviewStore, inventory repository.InventoryStore, log *zap.Logger) *ReviewService {
	return &ReviewService{
		log:       log,
		repo:      repo,
		inventory: inventory,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error) {
	if _, err := s.inventory.GetItem(ctx, req.OrgID, req.ItemID); err != nil {
		return model.Review{}, err
	}
	return s.repo.CreateReview(ctx, req)
}

func (s *ReviewService) ListReviews(ctx context.Context, orgID, itemID uuid.UUID) ([]model.Review, error) {
	return s.repo.ListReviews(ctx, orgID, itemID)
}
