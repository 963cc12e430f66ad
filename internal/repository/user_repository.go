package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const staffColumns = `id, email, password_hash, role, is_active, created_at, updated_at`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes password, inserts the staff account and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = normalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff_users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a staff account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.StaffUser, error) {
	var u model.StaffUser
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+staffColumns+" FROM staff_users WHERE email=? LIMIT 1", normalizeEmail(email))
	return u, notFound(err)
}

// GetByID fetches a staff account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.StaffUser, error) {
	var u model.StaffUser
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+staffColumns+" FROM staff_users WHERE id=? LIMIT 1", id)
	return u, notFound(err)
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
