package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go -package=mocks

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	GetReservation(ctx context.Context, orgID, id uuid.UUID) (model.Reservation, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) (model.ReservationList, error)
	ExtendReservation(ctx context.Context, req model.ExtendReservationRequest) (model.Reservation, error)
	ReturnMaterials(ctx context.Context, req model.ReturnMaterialsRequest) (model.Reservation, error)
	DeliverMaterials(ctx context.Context, req model.DeliverMaterialsRequest) (model.Reservation, error)
	CancelReservation(ctx context.Context, req model.CancelReservationRequest) (model.Reservation, error)
	UpdateStatus(ctx context.Context, req model.UpdateStatusRequest) (model.Reservation, error)
}

type InventoryService interface {
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error)
	ListCategories(ctx context.Context, orgID uuid.UUID) ([]model.Category, error)
	CreateItem(ctx context.Context, req model.CreateItemRequest) (model.Item, error)
	GetItem(ctx context.Context, orgID, id uuid.UUID) (model.Item, error)
	ListItems(ctx context.Context, f model.ItemFilter) (model.ItemList, error)
	UpdateItem(ctx context.Context, req model.UpdateItemRequest) (model.Item, error)
}

type OrganizationService interface {
	CreateOrganization(ctx context.Context, req model.CreateOrganizationRequest) (model.Organization, error)
	ListOrganizations(ctx context.Context, userID uuid.UUID) ([]model.Organization, error)
	AddMember(ctx context.Context, req model.AddMemberRequest) error
	GetMembership(ctx context.Context, orgID, userID uuid.UUID) (model.Membership, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (model.Review, error)
	ListReviews(ctx context.Context, orgID, itemID uuid.UUID) ([]model.Review, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.User, error)
}

var (
	_ ReservationService  = (*service.ReservationService)(nil)
	_ InventoryService    = (*service.InventoryService)(nil)
	_ OrganizationService = (*service.OrganizationService)(nil)
	_ ReviewService       = (*service.ReviewService)(nil)
	_ AuthService         = (*service.AuthService)(nil)
)
