package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vgpastor/RocNest-sub001/internal/errs"
	"github.com/vgpastor/RocNest-sub001/internal/model"
	"github.com/vgpastor/RocNest-sub001/pkg/auth"
)

type OrganizationStore interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	CreateOrganization(ctx context.Context, name string, ownerID uuid.UUID) (model.Organization, error)
	ListOrganizations(ctx context.Context, userID uuid.UUID) ([]model.Organization, error)
	AddMember(ctx context.Context, m model.Membership) error
	GetMembership(ctx context.Context, orgID, userID uuid.UUID) (model.Membership, error)
}

const (
	orgsTableName        = `organizations`
	usersTableName       = `users`
	membershipsTableName = `memberships`
)

type organizationRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewOrganizationRepository(db *sqlx.DB, log *zap.Logger) (*organizationRepo, error) {
	return &organizationRepo{
		db:  db,
		log: log.Named("org-repo"),
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *organizationRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.ID = uuid.New()
	q, args, err := qb.Insert(usersTableName).
		Columns("id", "email", "name", "password_hash").
		Values(user.ID, user.Email, user.Name, user.PasswordHash).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var created model.User
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.ErrAlreadyExists
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *organizationRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	q, args, err := qb.Select("*").
		From(usersTableName).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *organizationRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	q, args, err := qb.Select("*").
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

// CreateOrganization inserts the organization and makes creator its owner.
func (r *organizationRepo) CreateOrganization(ctx context.Context, name string, ownerID uuid.UUID) (model.Organization, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Organization{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(orgsTableName).
		Columns("id", "name").
		Values(uuid.New(), name).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Organization{}, err
	}
	var org model.Organization
	if err := tx.GetContext(ctx, &org, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Organization{}, errs.ErrAlreadyExists
		}
		return model.Organization{}, err
	}

	q, args, err = qb.Insert(membershipsTableName).
		Columns("org_id", "user_id", "role").
		Values(org.ID, ownerID, auth.RoleOwner).
		ToSql()
	if err != nil {
		return model.Organization{}, err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return model.Organization{}, errors.Wrap(err, "insert owner membership")
	}
	if err := tx.Commit(); err != nil {
		return model.Organization{}, err
	}
	return org, nil
}

func (r *organizationRepo) ListOrganizations(ctx context.Context, userID uuid.UUID) ([]model.Organization, error) {
	q, args, err := qb.Select("o.id", "o.name", "o.created_at").
		From(orgsTableName + " o").
		Join(membershipsTableName + " m on m.org_id = o.id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("o.name").
		ToSql()
	if err != nil {
		return nil, err
	}
	orgs := []model.Organization{}
	if err := r.db.SelectContext(ctx, &orgs, q, args...); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organizationRepo) AddMember(ctx context.Context, m model.Membership) error {
	q, args, err := qb.Insert(membershipsTableName).
		Columns("org_id", "user_id", "role").
		Values(m.OrgID, m.UserID, m.Role).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *organizationRepo) GetMembership(ctx context.Context, orgID, userID uuid.UUID) (model.Membership, error) {
	q, args, err := qb.Select("*").
		From(membershipsTableName).
		Where(sq.Eq{"org_id": orgID, "user_id": userID}).
		ToSql()
	if err != nil {
		return model.Membership{}, err
	}
	var m model.Membership
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Membership{}, errs.ErrNotFound
		}
		return model.Membership{}, err
	}
	return m, nil
}
