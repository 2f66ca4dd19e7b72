package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/repository"
)

type OrganizationService struct {
	log  *zap.Logger
	repo repository.OrganizationStore
}

func NewOrganizationService(repo repository.OrganizationStore, log *zap.Logger) *OrganizationService {
	return &OrganizationService{
		log:  log,
		repo: repo,
	}
}

func (s *OrganizationService) CreateOrganization(ctx context.Context, req model.CreateOrganizationRequest) (model.Organization, error) {
	return s.repo.CreateOrganization(ctx, req.Name, req.CreatedBy)
}

func (s *OrganizationService) ListOrganizations(ctx context.Context, userID uuid.UUID) ([]model.Organization, error) {
	return s.repo.ListOrganizations(ctx, userID)
}

func (s *OrganizationService) AddMember(ctx context.Context, req model.AddMemberRequest) error {
	// The user must exist before being attached to the organization.
	if _, err := s.repo.GetUserByID(ctx, req.UserID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, model.Membership{
		OrgID:  req.OrgID,
		UserID: req.UserID,
		Role:   req.Role,
	})
}

func (s *OrganizationService) GetMembership(ctx context.Context, orgID, userID uuid.UUID) (model.Membership, error) {
	return s.repo.GetMembership(ctx, orgID, userID)
}
