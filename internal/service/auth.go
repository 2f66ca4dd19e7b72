package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/internal/repository"
)

type AuthService struct {
	log  *zap.Logger
	repo repository.OrganizationStore
}

func NewAuthService(repo repository.OrganizationStore, log *zap.Logger) *AuthService {
	return &AuthService{
		log:  log,
		repo: repo,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	})
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return model.User{}, errs.ErrCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.User{}, errs.ErrCredentials
	}
	return user, nil
}
