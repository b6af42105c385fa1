// Package memrepo provides in-memory implementations of the user and wallet
// stores. They mirror the Postgres repositories' behavior, including id
// assignment and uniqueness rules, and are safe for concurrent use.
package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/family-wallet/internal/domain"
)

// UserRepo is an in-memory user store.
type UserRepo struct {
	mu     sync.RWMutex
	nextID int32
	users  map[int32]domain.User
}

// NewUserRepo returns an empty in-memory user store.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[int32]domain.User)}
}

// Create assigns the next free id and stores the user.
func (r *UserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists
		}
	}

	if user.GuardianID != nil {
		if _, ok := r.users[*user.GuardianID]; !ok {
			return domain.User{}, domain.ErrGuardianNotFound
		}
	}

	r.nextID++

	created, err := domain.NewUser(r.nextID, user.Email, user.HashedPassword,
		user.Roles(), user.GuardianID, user.WalletOwnership(), user.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}

	r.users[created.ID] = created

	return created, nil
}

// Update replaces the stored user.
func (r *UserRepo) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = user

	return nil
}

// Get returns the user with the given id.
func (r *UserRepo) Get(ctx context.Context, id int32) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return user, nil
}

// GetByEmail returns the user with the given email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

// ListByRole returns all users holding the given role.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.User{}

	for _, u := range r.users {
		if u.HasRole(role) {
			items = append(items, u)
		}
	}

	return items, nil
}

// ListByGuardian returns all dependents referencing the given guardian.
func (r *UserRepo) ListByGuardian(ctx context.Context, guardianID int32) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.User{}

	for _, u := range r.users {
		if u.GuardianID != nil && *u.GuardianID == guardianID {
			items = append(items, u)
		}
	}

	return items, nil
}

// Delete removes the user with the given id.
func (r *UserRepo) Delete(ctx context.Context, id int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)

	return nil
}

// WalletRepo is an in-memory wallet store.
type WalletRepo struct {
	mu      sync.RWMutex
	nextID  int32
	wallets map[int32]domain.Wallet
}

// NewWalletRepo returns an empty in-memory wallet store.
func NewWalletRepo() *WalletRepo {
	return &WalletRepo{wallets: make(map[int32]domain.Wallet)}
}

// Create assigns the next free id and stores a wallet for the user.
func (r *WalletRepo) Create(ctx context.Context, userID int32, balance int64) (domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.wallets {
		if w.UserID == userID {
			return domain.Wallet{}, domain.ErrWalletAlreadyExists
		}
	}

	r.nextID++

	wallet, err := domain.NewWallet(r.nextID, userID, balance, 0, nil, time.Time{})
	if err != nil {
		return domain.Wallet{}, err
	}

	r.wallets[wallet.ID] = wallet

	return wallet, nil
}

// Update replaces the stored wallet. The balance invariant is re-checked to
// match the Postgres check constraint.
func (r *WalletRepo) Update(ctx context.Context, w domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w.Balance < 0 {
		return domain.ErrInsufficientBalance
	}

	r.wallets[w.ID] = w

	return nil
}

// Get returns the wallet with the given id.
func (r *WalletRepo) Get(ctx context.Context, id int32) (domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, ok := r.wallets[id]
	if !ok {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}

	return wallet, nil
}

// GetByUser returns the wallet created by the given user.
func (r *WalletRepo) GetByUser(ctx context.Context, userID int32) (domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, w := range r.wallets {
		if w.UserID == userID {
			return w, nil
		}
	}

	return domain.Wallet{}, domain.ErrWalletNotFound
}

// Delete removes the wallet with the given id.
func (r *WalletRepo) Delete(ctx context.Context, id int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.wallets, id)

	return nil
}
