// Package walletservice manages business logic layer of wallets.
package walletservice

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/rs/zerolog"
)

// allowancePeriod is the minimum gap between two allowance applications on
// the same wallet.
const allowancePeriod = 7 * 24 * time.Hour

// WalletRepo provides data access layer interface needed by wallet service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package walletservice
type WalletRepo interface {
	Create(ctx context.Context, userID int32, balance int64) (domain.Wallet, error)
	Update(ctx context.Context, wallet domain.Wallet) error
	Get(ctx context.Context, id int32) (domain.Wallet, error)
}

// UserRepo provides the user store methods needed to link wallet ownership.
type UserRepo interface {
	Get(ctx context.Context, id int32) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

// Service facilitates wallet service layer logic.
type Service struct {
	walletRepo WalletRepo
	userRepo   UserRepo

	mu    sync.Mutex
	locks map[int32]*sync.Mutex
}

// New returns wallet service struct to manage wallet business logic.
func New(wr WalletRepo, ur UserRepo) *Service {
	return &Service{
		walletRepo: wr,
		userRepo:   ur,
		locks:      make(map[int32]*sync.Mutex),
	}
}

// lockWallet serializes read-modify-write cycles per wallet id. A shared
// wallet can be mutated by a guardian and several dependents at once;
// operations on different wallets proceed in parallel.
func (s *Service) lockWallet(id int32) func() {
	s.mu.Lock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}

	s.mu.Unlock()

	l.Lock()

	return l.Unlock
}

// Create creates a wallet for the user and links the user's ownership to it.
// A user that already references a wallet cannot create another one.
func (s *Service) Create(ctx context.Context, userID int32, initialBalance int64) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	if initialBalance < 0 {
		return domain.Wallet{}, domain.ErrNegativeAmount
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return domain.Wallet{}, err
	}

	if user.HasWallet() {
		return domain.Wallet{}, domain.ErrWalletAlreadyExists
	}

	wallet, err := s.walletRepo.Create(ctx, userID, initialBalance)
	if err != nil {
		return domain.Wallet{}, err
	}

	ownership, err := domain.WithWallet(wallet.ID)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Wallet{}, err
	}

	user.SetWalletOwnership(ownership)

	if err = s.userRepo.Update(ctx, user); err != nil {
		return domain.Wallet{}, err
	}

	return wallet, nil
}

// Get returns the wallet with the given id.
func (s *Service) Get(ctx context.Context, walletID int32) (domain.Wallet, error) {
	return s.walletRepo.Get(ctx, walletID)
}

// Deposit adds a strictly positive amount to the wallet balance.
func (s *Service) Deposit(ctx context.Context, walletID int32, amount int64) (domain.Wallet, error) {
	if amount <= 0 {
		return domain.Wallet{}, domain.ErrNonPositiveAmount
	}

	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.walletRepo.Get(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, err
	}

	if err = wallet.Deposit(amount); err != nil {
		return domain.Wallet{}, err
	}

	if err = s.walletRepo.Update(ctx, wallet); err != nil {
		return domain.Wallet{}, err
	}

	return wallet, nil
}

// RecordExpense withdraws a strictly positive amount from the wallet balance.
func (s *Service) RecordExpense(ctx context.Context, walletID int32, amount int64, description string) (domain.Wallet, error) {
	l := zerolog.Ctx(ctx)

	if amount <= 0 {
		return domain.Wallet{}, domain.ErrNonPositiveAmount
	}

	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.walletRepo.Get(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, err
	}

	if err = wallet.Withdraw(amount); err != nil {
		return domain.Wallet{}, err
	}

	if err = s.walletRepo.Update(ctx, wallet); err != nil {
		return domain.Wallet{}, err
	}

	if description != "" {
		l.Info().
			Int32("wallet_id", walletID).
			Int64("amount", amount).
			Str("description", description).
			Msg("expense recorded")
	}

	return wallet, nil
}

// SetWeeklyAllowance replaces the wallet's recurring allowance. Zero unsets it.
func (s *Service) SetWeeklyAllowance(ctx context.Context, walletID int32, amount int64) (domain.Wallet, error) {
	if amount < 0 {
		return domain.Wallet{}, domain.ErrNegativeAmount
	}

	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.walletRepo.Get(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, err
	}

	if err = wallet.SetWeeklyAllowance(amount); err != nil {
		return domain.Wallet{}, err
	}

	if err = s.walletRepo.Update(ctx, wallet); err != nil {
		return domain.Wallet{}, err
	}

	return wallet, nil
}

// ApplyAllowance credits the configured weekly allowance, at most once per
// allowance period.
func (s *Service) ApplyAllowance(ctx context.Context, walletID int32) (domain.Wallet, error) {
	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.walletRepo.Get(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, err
	}

	if wallet.LastAllowanceDate != nil && time.Since(*wallet.LastAllowanceDate) < allowancePeriod {
		return domain.Wallet{}, domain.ErrAllowanceAlreadyApplied
	}

	if err = wallet.ApplyWeeklyAllowance(); err != nil {
		return domain.Wallet{}, err
	}

	if err = s.walletRepo.Update(ctx, wallet); err != nil {
		return domain.Wallet{}, err
	}

	return wallet, nil
}
