package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustRole(t *testing.T, value string) Role {
	t.Helper()

	role, err := NewRole(value)
	require.NoError(t, err)

	return role
}

func int32Ptr(v int32) *int32 {
	return &v
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		email      string
		password   string
		roles      []string
		guardianID *int32
		wantErr    error
	}{
		{
			name:     "Guardian",
			email:    "p@x.com",
			password: "hashed",
			roles:    []string{RoleGuardian},
		},
		{
			name:       "Dependent",
			email:      "t@x.com",
			password:   "hashed",
			roles:      []string{RoleDependent},
			guardianID: int32Ptr(7),
		},
		{
			name:     "Admin",
			email:    "a@x.com",
			password: "hashed",
			roles:    []string{RoleAdmin},
		},
		{
			name:     "Invalid email",
			email:    "not-an-email",
			password: "hashed",
			roles:    []string{RoleGuardian},
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "Empty password",
			email:    "p@x.com",
			password: "",
			roles:    []string{RoleGuardian},
			wantErr:  ErrEmptyPassword,
		},
		{
			name:     "No roles",
			email:    "p@x.com",
			password: "hashed",
			roles:    []string{},
			wantErr:  ErrNoRoles,
		},
		{
			name:     "Dependent without guardian id",
			email:    "t@x.com",
			password: "hashed",
			roles:    []string{RoleDependent},
			wantErr:  ErrGuardianRequired,
		},
		{
			name:       "Guardian with guardian id",
			email:      "p@x.com",
			password:   "hashed",
			roles:      []string{RoleGuardian},
			guardianID: int32Ptr(7),
			wantErr:    ErrGuardianNotAllowed,
		},
		{
			name:       "Guardian and dependent together",
			email:      "p@x.com",
			password:   "hashed",
			roles:      []string{RoleGuardian, RoleDependent},
			guardianID: int32Ptr(7),
			wantErr:    ErrGuardianNotAllowed,
		},
		{
			name:     "Guardian and dependent without guardian id",
			email:    "p@x.com",
			password: "hashed",
			roles:    []string{RoleGuardian, RoleDependent},
			wantErr:  ErrGuardianRequired,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			roles := make([]Role, len(tc.roles))
			for i, v := range tc.roles {
				roles[i] = mustRole(t, v)
			}

			user, err := NewUser(0, tc.email, tc.password, roles, tc.guardianID, WithoutWallet(), time.Time{})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.email, user.Email)
			require.Equal(t, tc.roles, user.RoleValues())
			require.False(t, user.HasWallet())
			require.False(t, user.CreatedAt.IsZero())
		})
	}
}

func TestNewUserDedupesRoles(t *testing.T) {
	t.Parallel()

	guardian := mustRole(t, RoleGuardian)

	user, err := NewUser(0, "p@x.com", "hashed", []Role{guardian, guardian}, nil, WithoutWallet(), time.Time{})
	require.NoError(t, err)
	require.Len(t, user.Roles(), 1)
}

func TestAddRole(t *testing.T) {
	t.Parallel()

	guardian := mustRole(t, RoleGuardian)
	dependent := mustRole(t, RoleDependent)
	admin := mustRole(t, RoleAdmin)

	user, err := NewUser(1, "p@x.com", "hashed", []Role{guardian}, nil, WithoutWallet(), time.Time{})
	require.NoError(t, err)

	// Idempotent union.
	require.NoError(t, user.AddRole(guardian))
	require.Len(t, user.Roles(), 1)

	require.NoError(t, user.AddRole(admin))
	require.True(t, user.IsAdmin())
	require.Len(t, user.Roles(), 2)

	// Guardian without guardian id cannot also become a dependent.
	require.ErrorIs(t, user.AddRole(dependent), ErrGuardianRequired)
	require.False(t, user.IsDependent())
}

func TestRemoveRole(t *testing.T) {
	t.Parallel()

	dependent := mustRole(t, RoleDependent)
	admin := mustRole(t, RoleAdmin)
	guardian := mustRole(t, RoleGuardian)

	user, err := NewUser(1, "t@x.com", "hashed", []Role{dependent, admin}, int32Ptr(7), WithoutWallet(), time.Time{})
	require.NoError(t, err)

	// Removing an absent role is a no-op.
	require.NoError(t, user.RemoveRole(guardian))
	require.Len(t, user.Roles(), 2)

	// Dropping DEPENDENT while a guardian id remains is allowed; only an
	// inconsistent pairing is rejected.
	require.NoError(t, user.RemoveRole(dependent))
	require.False(t, user.IsDependent())

	// The last role cannot be removed.
	require.ErrorIs(t, user.RemoveRole(admin), ErrNoRoles)
	require.True(t, user.IsAdmin())
}

func TestRemoveRoleRevalidatesGuardianLink(t *testing.T) {
	t.Parallel()

	dependent := mustRole(t, RoleDependent)
	admin := mustRole(t, RoleAdmin)

	user, err := NewUser(1, "t@x.com", "hashed", []Role{dependent, admin}, int32Ptr(7), WithoutWallet(), time.Time{})
	require.NoError(t, err)

	// ADMIN can be dropped; the remaining DEPENDENT still has its guardian.
	require.NoError(t, user.RemoveRole(admin))
	require.Equal(t, []string{RoleDependent}, user.RoleValues())
}

func TestSetWalletOwnership(t *testing.T) {
	t.Parallel()

	guardian := mustRole(t, RoleGuardian)

	user, err := NewUser(1, "p@x.com", "hashed", []Role{guardian}, nil, WithoutWallet(), time.Time{})
	require.NoError(t, err)
	require.False(t, user.HasWallet())

	ownership, err := WithWallet(42)
	require.NoError(t, err)

	user.SetWalletOwnership(ownership)
	require.True(t, user.HasWallet())

	id, err := user.WalletID()
	require.NoError(t, err)
	require.Equal(t, int32(42), id)

	user.SetWalletOwnership(WithoutWallet())
	require.False(t, user.HasWallet())
}
