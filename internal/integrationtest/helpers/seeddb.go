// Package helpers provides shared seeding helpers for integration tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-petr/family-wallet/internal/userrepo"
	"github.com/go-petr/family-wallet/internal/walletrepo"
	"github.com/go-petr/family-wallet/pkg/dbpkg"
	"github.com/go-petr/family-wallet/pkg/passpkg"
	"github.com/go-petr/family-wallet/pkg/randompkg"
)

// SeedGuardian creates a random guardian user inside a test transaction.
func SeedGuardian(t *testing.T, tx dbpkg.SQLInterface) domain.User {
	t.Helper()

	return seedUser(t, tx, domain.RoleGuardian, nil)
}

// SeedDependent creates a random dependent of the given guardian inside a
// test transaction.
func SeedDependent(t *testing.T, tx dbpkg.SQLInterface, guardianID int32) domain.User {
	t.Helper()

	return seedUser(t, tx, domain.RoleDependent, &guardianID)
}

func seedUser(t *testing.T, tx dbpkg.SQLInterface, roleValue string, guardianID *int32) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(32))
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	role, err := domain.NewRole(roleValue)
	if err != nil {
		t.Fatalf("domain.NewRole(%v) returned error: %v", roleValue, err)
	}

	user, err := domain.NewUser(0, randompkg.Email(), hashedPassword,
		[]domain.Role{role}, guardianID, domain.WithoutWallet(), time.Time{})
	if err != nil {
		t.Fatalf("domain.NewUser() returned error: %v", err)
	}

	userRepo := userrepo.NewRepoPGS(tx)

	created, err := userRepo.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("userRepo.Create() returned error: %v", err)
	}

	return created
}

// SeedWallet creates a wallet with the given balance for the user and links
// the user's ownership to it, all inside a test transaction.
func SeedWallet(t *testing.T, tx dbpkg.SQLInterface, user domain.User, balance int64) domain.Wallet {
	t.Helper()

	walletRepo := walletrepo.NewRepoPGS(tx)

	wallet, err := walletRepo.Create(context.Background(), user.ID, balance)
	if err != nil {
		t.Fatalf("walletRepo.Create() returned error: %v", err)
	}

	ownership, err := domain.WithWallet(wallet.ID)
	if err != nil {
		t.Fatalf("domain.WithWallet(%v) returned error: %v", wallet.ID, err)
	}

	user.SetWalletOwnership(ownership)

	userRepo := userrepo.NewRepoPGS(tx)

	if err := userRepo.Update(context.Background(), user); err != nil {
		t.Fatalf("userRepo.Update() returned error: %v", err)
	}

	return wallet
}
