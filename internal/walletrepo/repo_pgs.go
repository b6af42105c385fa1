// Package walletrepo manages repository layer of wallets.
package walletrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-petr/family-wallet/pkg/dbpkg"
	"github.com/go-petr/family-wallet/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates wallet repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns wallet RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO wallets (user_id, balance)
VALUES ($1, $2)
RETURNING id, user_id, balance, weekly_allowance, last_allowance_date, created_at
`

// Create creates a wallet for the user and returns it with the assigned id.
func (r *RepoPGS) Create(ctx context.Context, userID int32, balance int64) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, userID, balance)

	w, err := scanWallet(row.Scan)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "wallets_user_id_key":
				return w, domain.ErrWalletAlreadyExists
			case "wallets_user_id_fkey":
				return w, domain.ErrUserNotFound
			case "wallets_balance_check":
				return w, domain.ErrNegativeAmount
			}
		}

		return w, errorspkg.ErrInternal
	}

	return w, nil
}

const updateQuery = `
UPDATE wallets
SET balance = $2,
    weekly_allowance = $3,
    last_allowance_date = $4
WHERE id = $1
`

// Update persists the wallet's mutable state.
// The balance check constraint backs up the domain invariant.
func (r *RepoPGS) Update(ctx context.Context, w domain.Wallet) error {
	l := zerolog.Ctx(ctx)

	_, err := r.db.ExecContext(ctx, updateQuery,
		w.ID,
		w.Balance,
		w.WeeklyAllowance,
		nullableTime(w),
	)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "wallets_balance_check" {
				return domain.ErrInsufficientBalance
			}
		}

		return errorspkg.ErrInternal
	}

	return nil
}

const getQuery = `
SELECT id, user_id, balance, weekly_allowance, last_allowance_date, created_at
FROM wallets
WHERE id = $1
`

// Get returns the wallet with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	w, err := scanWallet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return w, domain.ErrWalletNotFound
		}

		l.Error().Err(err).Send()

		return w, errorspkg.ErrInternal
	}

	return w, nil
}

const getByUserQuery = `
SELECT id, user_id, balance, weekly_allowance, last_allowance_date, created_at
FROM wallets
WHERE user_id = $1
`

// GetByUser returns the wallet created by the given user.
// Dependents referencing a shared wallet are resolved through their
// ownership, not through this query.
func (r *RepoPGS) GetByUser(ctx context.Context, userID int32) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByUserQuery, userID)

	w, err := scanWallet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return w, domain.ErrWalletNotFound
		}

		l.Error().Err(err).Send()

		return w, errorspkg.ErrInternal
	}

	return w, nil
}

const deleteQuery = `
DELETE FROM wallets WHERE id = $1
`

// Delete removes the wallet with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, deleteQuery, id)
	return err
}

func scanWallet(scan func(dest ...interface{}) error) (domain.Wallet, error) {
	var (
		w    domain.Wallet
		last sql.NullTime
	)

	err := scan(&w.ID, &w.UserID, &w.Balance, &w.WeeklyAllowance, &last, &w.CreatedAt)
	if err != nil {
		return domain.Wallet{}, err
	}

	if last.Valid {
		t := last.Time
		w.LastAllowanceDate = &t
	}

	return w, nil
}

func nullableTime(w domain.Wallet) sql.NullTime {
	if w.LastAllowanceDate == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *w.LastAllowanceDate, Valid: true}
}
