// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-petr/family-wallet/pkg/dbpkg"
	"github.com/go-petr/family-wallet/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO users (
    email,
    hashed_password,
    guardian_id,
    wallet_id,
    created_at
) VALUES (
    $1, $2, $3, $4, $5
) RETURNING id, created_at
`

const insertRoleQuery = `
INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
`

// Create creates the user with its roles and returns it with the assigned id.
func (r *RepoPGS) Create(ctx context.Context, user domain.User) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		user.Email,
		user.HashedPassword,
		nullableID(user.GuardianID),
		nullableWalletID(&user),
		user.CreatedAt,
	)

	var (
		id        int32
		createdAt time.Time
	)

	if err := row.Scan(&id, &createdAt); err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "users_email_key":
				return domain.User{}, domain.ErrEmailAlreadyExists
			case "users_guardian_id_fkey":
				return domain.User{}, domain.ErrGuardianNotFound
			}
		}

		return domain.User{}, errorspkg.ErrInternal
	}

	for _, role := range user.RoleValues() {
		if _, err := r.db.ExecContext(ctx, insertRoleQuery, id, role); err != nil {
			l.Error().Err(err).Send()
			return domain.User{}, errorspkg.ErrInternal
		}
	}

	created, err := domain.NewUser(id, user.Email, user.HashedPassword,
		user.Roles(), user.GuardianID, user.WalletOwnership(), createdAt)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	return created, nil
}

const updateQuery = `
UPDATE users
SET email = $2,
    hashed_password = $3,
    guardian_id = $4,
    wallet_id = $5
WHERE id = $1
`

const deleteRolesQuery = `
DELETE FROM user_roles WHERE user_id = $1
`

// Update persists the user's mutable state. Roles are replaced wholesale.
func (r *RepoPGS) Update(ctx context.Context, user domain.User) error {
	l := zerolog.Ctx(ctx)

	_, err := r.db.ExecContext(ctx, updateQuery,
		user.ID,
		user.Email,
		user.HashedPassword,
		nullableID(user.GuardianID),
		nullableWalletID(&user),
	)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if _, err := r.db.ExecContext(ctx, deleteRolesQuery, user.ID); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	for _, role := range user.RoleValues() {
		if _, err := r.db.ExecContext(ctx, insertRoleQuery, user.ID, role); err != nil {
			l.Error().Err(err).Send()
			return errorspkg.ErrInternal
		}
	}

	return nil
}

const getQuery = `
SELECT
	u.id,
	u.email,
	u.hashed_password,
	u.guardian_id,
	u.wallet_id,
	u.created_at,
	array_agg(r.role)
FROM users u
JOIN user_roles r ON r.user_id = u.id
WHERE u.id = $1
GROUP BY u.id
`

// Get returns the user with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	user, err := scanUser(row.Scan)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return user, domain.ErrUserNotFound
		}

		return user, errorspkg.ErrInternal
	}

	return user, nil
}

const getByEmailQuery = `
SELECT
	u.id,
	u.email,
	u.hashed_password,
	u.guardian_id,
	u.wallet_id,
	u.created_at,
	array_agg(r.role)
FROM users u
JOIN user_roles r ON r.user_id = u.id
WHERE u.email = $1
GROUP BY u.id
`

// GetByEmail returns the user with the given email.
func (r *RepoPGS) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByEmailQuery, email)

	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return user, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return user, errorspkg.ErrInternal
	}

	return user, nil
}

const listByRoleQuery = `
SELECT
	u.id,
	u.email,
	u.hashed_password,
	u.guardian_id,
	u.wallet_id,
	u.created_at,
	array_agg(r.role)
FROM users u
JOIN user_roles r ON r.user_id = u.id
WHERE u.id IN (SELECT user_id FROM user_roles WHERE role = $1)
GROUP BY u.id
ORDER BY u.id
`

// ListByRole returns all users holding the given role.
func (r *RepoPGS) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	return r.list(ctx, listByRoleQuery, role)
}

const listByGuardianQuery = `
SELECT
	u.id,
	u.email,
	u.hashed_password,
	u.guardian_id,
	u.wallet_id,
	u.created_at,
	array_agg(r.role)
FROM users u
JOIN user_roles r ON r.user_id = u.id
WHERE u.guardian_id = $1
GROUP BY u.id
ORDER BY u.id
`

// ListByGuardian returns all dependents referencing the given guardian.
func (r *RepoPGS) ListByGuardian(ctx context.Context, guardianID int32) ([]domain.User, error) {
	return r.list(ctx, listByGuardianQuery, guardianID)
}

func (r *RepoPGS) list(ctx context.Context, query string, arg interface{}) ([]domain.User, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.User{}

	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, user)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const deleteQuery = `
DELETE FROM users WHERE id = $1
`

// Delete removes the user and its roles.
func (r *RepoPGS) Delete(ctx context.Context, id int32) error {
	if _, err := r.db.ExecContext(ctx, deleteRolesQuery, id); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, deleteQuery, id)

	return err
}

func scanUser(scan func(dest ...interface{}) error) (domain.User, error) {
	var (
		id         int32
		email      string
		hashed     string
		guardianID sql.NullInt32
		walletID   sql.NullInt32
		createdAt  time.Time
		roleValues pq.StringArray
	)

	err := scan(&id, &email, &hashed, &guardianID, &walletID, &createdAt, &roleValues)
	if err != nil {
		return domain.User{}, err
	}

	roles := make([]domain.Role, 0, len(roleValues))

	for _, v := range roleValues {
		role, err := domain.NewRole(v)
		if err != nil {
			return domain.User{}, err
		}

		roles = append(roles, role)
	}

	ownership := domain.WithoutWallet()

	if walletID.Valid {
		ownership, err = domain.WithWallet(walletID.Int32)
		if err != nil {
			return domain.User{}, err
		}
	}

	var guardian *int32

	if guardianID.Valid {
		v := guardianID.Int32
		guardian = &v
	}

	return domain.NewUser(id, email, hashed, roles, guardian, ownership, createdAt)
}

func nullableID(id *int32) sql.NullInt32 {
	if id == nil {
		return sql.NullInt32{}
	}

	return sql.NullInt32{Int32: *id, Valid: true}
}

func nullableWalletID(u *domain.User) sql.NullInt32 {
	id, err := u.WalletID()
	if err != nil {
		return sql.NullInt32{}
	}

	return sql.NullInt32{Int32: id, Valid: true}
}
