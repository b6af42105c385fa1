// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"time"

	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-petr/family-wallet/pkg/errorspkg"
	"github.com/go-petr/family-wallet/pkg/passpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Get(ctx context.Context, id int32) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	result := domain.UserWithoutPassword{
		ID:         u.ID,
		Email:      u.Email,
		Roles:      u.RoleValues(),
		GuardianID: u.GuardianID,
		HasWallet:  u.HasWallet(),
		CreatedAt:  u.CreatedAt,
	}

	if walletID, err := u.WalletID(); err == nil {
		result.WalletID = walletID
	}

	return result
}

// Register creates a user with the requested role. A dependent must
// reference an existing guardian; if that guardian already has a wallet the
// dependent is linked to the same wallet.
func (s *Service) Register(ctx context.Context, email, password, roleValue string, guardianID *int32) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	role, err := domain.NewRole(roleValue)
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	if role.IsDependent() && guardianID == nil {
		return result, domain.ErrGuardianRequired
	}

	_, err = s.repo.GetByEmail(ctx, email)
	if err == nil {
		return result, domain.ErrEmailAlreadyExists
	}

	if err != domain.ErrUserNotFound {
		return result, err
	}

	if role.IsDependent() {
		if _, err = s.repo.Get(ctx, *guardianID); err != nil {
			if err == domain.ErrUserNotFound {
				return result, domain.ErrGuardianNotFound
			}

			return result, err
		}
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	user, err := domain.NewUser(0, email, hashedPassword,
		[]domain.Role{role}, guardianID, domain.WithoutWallet(), time.Time{})
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return result, err
	}

	if role.IsDependent() {
		created, err = s.inheritGuardianWallet(ctx, created, *guardianID)
		if err != nil {
			return result, err
		}
	}

	return NewUserWithoutPassword(created), nil
}

// inheritGuardianWallet re-reads the guardian after the dependent is
// persisted and, if the guardian has a wallet by then, links the dependent
// to that same wallet. A guardian without a wallet leaves the dependent
// without one; no wallet is created speculatively.
func (s *Service) inheritGuardianWallet(ctx context.Context, dependent domain.User, guardianID int32) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	guardian, err := s.repo.Get(ctx, guardianID)
	if err != nil {
		// The guardian existed before the insert. Losing it here only costs
		// the wallet link; a later wallet creation restores it.
		l.Warn().Err(err).Int32("guardian_id", guardianID).Send()
		return dependent, nil
	}

	walletID, err := guardian.WalletID()
	if err != nil {
		return dependent, nil
	}

	ownership, err := domain.WithWallet(walletID)
	if err != nil {
		l.Error().Err(err).Send()
		return dependent, errorspkg.ErrInternal
	}

	dependent.SetWalletOwnership(ownership)

	if err = s.repo.Update(ctx, dependent); err != nil {
		return dependent, err
	}

	return dependent, nil
}

// CheckPassword checks if the password is valid for the given email.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWithoutPassword

	gotUser, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return response, err
	}

	err = passpkg.Check(password, gotUser.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Send()
		return response, domain.ErrWrongPassword
	}

	return NewUserWithoutPassword(gotUser), nil
}
