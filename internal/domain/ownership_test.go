package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithWallet(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		walletID int32
		wantErr  error
	}{
		{name: "OK", walletID: 1},
		{name: "Zero id", walletID: 0, wantErr: ErrInvalidWalletID},
		{name: "Negative id", walletID: -7, wantErr: ErrInvalidWalletID},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ownership, err := WithWallet(tc.walletID)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.True(t, ownership.HasWallet())

			id, err := ownership.WalletID()
			require.NoError(t, err)
			require.Equal(t, tc.walletID, id)
		})
	}
}

func TestWithoutWallet(t *testing.T) {
	t.Parallel()

	ownership := WithoutWallet()
	require.False(t, ownership.HasWallet())

	_, err := ownership.WalletID()
	require.ErrorIs(t, err, ErrNoWallet)
}

func TestWalletOwnershipEqual(t *testing.T) {
	t.Parallel()

	first, err := WithWallet(3)
	require.NoError(t, err)
	second, err := WithWallet(3)
	require.NoError(t, err)
	third, err := WithWallet(4)
	require.NoError(t, err)

	require.True(t, first.Equal(second))
	require.False(t, first.Equal(third))
	require.False(t, first.Equal(WithoutWallet()))
	require.True(t, WithoutWallet().Equal(WithoutWallet()))
}
