package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/user-profile/internal/common/db"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/user/domain"
)

const userColumns = `id, username, email, password_hash, phone, dob, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.DOB,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err := db.HandleExecError(err, "create_user", start); err != nil {
		return uniqueConflict(err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_id", `WHERE id = $1`, string(id))
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_username", `WHERE username = $1`, username)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_email", `WHERE email = lower($1)`, email)
}

// FindByUsernameOrEmail prefers an exact username match over an email match.
func (r *PgRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error) {
	return r.findOne(
		ctx,
		"find_user_by_login",
		`WHERE username = $1 OR email = lower($1) ORDER BY (username = $1) DESC LIMIT 1`,
		identifier,
	)
}

func (r *PgRepository) UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE users SET email = $2, phone = $3, dob = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING `+userColumns,
		string(id),
		update.Email,
		update.Phone,
		update.DOB,
		update.UpdatedAt,
	)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "update_user_profile", start); err != nil {
		return domain.User{}, uniqueConflict(err)
	}
	return user, nil
}

func (r *PgRepository) findOne(ctx context.Context, operation, where string, arg any) (domain.User, error) {
	var user domain.User

	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg)

		var scanErr error
		user, scanErr = scanUser(row)
		return db.HandleQueryError(scanErr, ErrUserNotFound, operation, start)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// uniqueConflict turns a unique violation into the matching repository
// conflict and passes any other error through.
func uniqueConflict(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok {
		if conflict := conflictFromConstraint(constraint); conflict != nil {
			return conflict
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	err := row.Scan(
		&id,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.DOB,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	user.DOB = user.DOB.UTC()
	return user, nil
}

var _ Repository = (*PgRepository)(nil)
