package domain

import "errors"

var (
	// ErrInvalidWalletID indicates that a wallet id is not a positive integer.
	ErrInvalidWalletID = errors.New("wallet id must be positive")
	// ErrNoWallet indicates that the user has no associated wallet.
	ErrNoWallet = errors.New("user has no wallet")
)

// WalletOwnership is an immutable value object describing whether a user
// has an associated wallet and, if so, which one.
type WalletOwnership struct {
	hasWallet bool
	walletID  int32
}

// WithoutWallet returns ownership of no wallet.
func WithoutWallet() WalletOwnership {
	return WalletOwnership{}
}

// WithWallet returns ownership of the wallet with the given id.
func WithWallet(walletID int32) (WalletOwnership, error) {
	if walletID <= 0 {
		return WalletOwnership{}, ErrInvalidWalletID
	}

	return WalletOwnership{hasWallet: true, walletID: walletID}, nil
}

// HasWallet returns true if the ownership references a wallet.
func (o WalletOwnership) HasWallet() bool {
	return o.hasWallet
}

// WalletID returns the referenced wallet id.
// It fails with ErrNoWallet for ownership of no wallet.
func (o WalletOwnership) WalletID() (int32, error) {
	if !o.hasWallet {
		return 0, ErrNoWallet
	}

	return o.walletID, nil
}

// Equal reports whether both ownerships reference the same wallet, if any.
func (o WalletOwnership) Equal(other WalletOwnership) bool {
	return o == other
}
