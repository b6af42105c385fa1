package domain

import (
	"errors"
	"time"
)

var (
	// ErrWalletNotFound indicates that the wallet is not found.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletAlreadyExists indicates that the user already has a wallet.
	ErrWalletAlreadyExists = errors.New("user already has a wallet")
	// ErrNegativeAmount indicates a negative money amount.
	ErrNegativeAmount = errors.New("amount cannot be negative")
	// ErrNonPositiveAmount indicates a zero or negative money amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance indicates a withdrawal exceeding the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAllowanceNotSet indicates that no weekly allowance is configured.
	ErrAllowanceNotSet = errors.New("weekly allowance is not set")
	// ErrAllowanceAlreadyApplied indicates an allowance applied twice within
	// the same week.
	ErrAllowanceAlreadyApplied = errors.New("weekly allowance already applied this week")
)

// Wallet holds a monetary balance in minor currency units, an optional
// recurring weekly allowance and the last time that allowance was applied.
// One wallet may be referenced by multiple users.
type Wallet struct {
	ID                int32      `json:"id"`
	UserID            int32      `json:"user_id"`
	Balance           int64      `json:"balance"`
	WeeklyAllowance   int64      `json:"weekly_allowance"`
	LastAllowanceDate *time.Time `json:"last_allowance_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewWallet validates and constructs a Wallet. A zero createdAt defaults to
// now. The id is zero before the store assigns one.
func NewWallet(id, userID int32, balance, weeklyAllowance int64, lastAllowanceDate *time.Time, createdAt time.Time) (Wallet, error) {
	if balance < 0 {
		return Wallet{}, ErrNegativeAmount
	}

	if weeklyAllowance < 0 {
		return Wallet{}, ErrNegativeAmount
	}

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Wallet{
		ID:                id,
		UserID:            userID,
		Balance:           balance,
		WeeklyAllowance:   weeklyAllowance,
		LastAllowanceDate: lastAllowanceDate,
		CreatedAt:         createdAt,
	}, nil
}

// Deposit adds the amount to the balance.
func (w *Wallet) Deposit(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	w.Balance += amount

	return nil
}

// Withdraw subtracts the amount from the balance.
// The balance never goes negative.
func (w *Wallet) Withdraw(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	if amount > w.Balance {
		return ErrInsufficientBalance
	}

	w.Balance -= amount

	return nil
}

// SetWeeklyAllowance replaces the configured weekly allowance.
// Zero means unset.
func (w *Wallet) SetWeeklyAllowance(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	w.WeeklyAllowance = amount

	return nil
}

// ApplyWeeklyAllowance credits the configured allowance to the balance and
// records the application time. Once-per-week throttling is the caller's
// responsibility.
func (w *Wallet) ApplyWeeklyAllowance() error {
	if w.WeeklyAllowance <= 0 {
		return ErrAllowanceNotSet
	}

	now := time.Now()
	w.Balance += w.WeeklyAllowance
	w.LastAllowanceDate = &now

	return nil
}
