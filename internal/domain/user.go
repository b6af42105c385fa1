package domain

import (
	"errors"
	"net/mail"
	"time"
)

var (
	// ErrInvalidEmail indicates that the email is not in a valid format.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrEmptyPassword indicates that the password hash is empty.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrNoRoles indicates that the user would be left without any role.
	ErrNoRoles = errors.New("user must have at least one role")
	// ErrGuardianRequired indicates a dependent without a guardian id.
	ErrGuardianRequired = errors.New("dependent must have a guardian id")
	// ErrGuardianNotAllowed indicates a guardian holding a guardian id.
	ErrGuardianNotAllowed = errors.New("guardian cannot have a guardian id")
	// ErrEmailAlreadyExists indicates that the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrGuardianNotFound indicates that the referenced guardian is not found.
	ErrGuardianNotFound = errors.New("guardian not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
)

// User is the aggregate combining identity, credentials, roles, an optional
// guardian link and wallet ownership. Construct it with NewUser only; role
// and ownership state is kept consistent through the mutation methods.
type User struct {
	ID             int32
	Email          string
	HashedPassword string
	GuardianID     *int32
	CreatedAt      time.Time

	roles     []Role
	ownership WalletOwnership
}

// NewUser validates and constructs a User. A zero createdAt defaults to now.
// The id is zero before the store assigns one.
func NewUser(id int32, email, hashedPassword string, roles []Role, guardianID *int32, ownership WalletOwnership, createdAt time.Time) (User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrInvalidEmail
	}

	if hashedPassword == "" {
		return User{}, ErrEmptyPassword
	}

	deduped := dedupeRoles(roles)
	if len(deduped) == 0 {
		return User{}, ErrNoRoles
	}

	if err := validateGuardianLink(deduped, guardianID); err != nil {
		return User{}, err
	}

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return User{
		ID:             id,
		Email:          email,
		HashedPassword: hashedPassword,
		GuardianID:     guardianID,
		CreatedAt:      createdAt,
		roles:          deduped,
		ownership:      ownership,
	}, nil
}

func dedupeRoles(roles []Role) []Role {
	deduped := make([]Role, 0, len(roles))

	for _, r := range roles {
		present := false

		for _, d := range deduped {
			if d.Equal(r) {
				present = true
				break
			}
		}

		if !present {
			deduped = append(deduped, r)
		}
	}

	return deduped
}

// validateGuardianLink enforces the role and guardian id pairing:
// a dependent must reference a guardian, a guardian must not reference one.
// Holding both roles at once is therefore impossible.
func validateGuardianLink(roles []Role, guardianID *int32) error {
	var isDependent, isGuardian bool

	for _, r := range roles {
		if r.IsDependent() {
			isDependent = true
		}

		if r.IsGuardian() {
			isGuardian = true
		}
	}

	if isDependent && guardianID == nil {
		return ErrGuardianRequired
	}

	if isGuardian && guardianID != nil {
		return ErrGuardianNotAllowed
	}

	return nil
}

// Roles returns a copy of the user's roles.
func (u *User) Roles() []Role {
	roles := make([]Role, len(u.roles))
	copy(roles, u.roles)

	return roles
}

// RoleValues returns the string values of the user's roles.
func (u *User) RoleValues() []string {
	values := make([]string, len(u.roles))
	for i, r := range u.roles {
		values[i] = r.String()
	}

	return values
}

// HasRole returns true if the user holds a role with the given value.
func (u *User) HasRole(value string) bool {
	for _, r := range u.roles {
		if r.String() == value {
			return true
		}
	}

	return false
}

// IsGuardian returns true if the user holds the GUARDIAN role.
func (u *User) IsGuardian() bool {
	return u.HasRole(RoleGuardian)
}

// IsDependent returns true if the user holds the DEPENDENT role.
func (u *User) IsDependent() bool {
	return u.HasRole(RoleDependent)
}

// IsAdmin returns true if the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// AddRole adds the role to the user's role set. Adding an already held role
// is a no-op. The role and guardian id invariants are re-checked; on
// violation the user is left unchanged.
func (u *User) AddRole(role Role) error {
	if u.HasRole(role.String()) {
		return nil
	}

	next := append(u.Roles(), role)

	if err := validateGuardianLink(next, u.GuardianID); err != nil {
		return err
	}

	u.roles = next

	return nil
}

// RemoveRole removes the role by value equality. Removing an absent role is
// a no-op. The role and guardian id invariants are re-checked; on violation
// the user is left unchanged.
func (u *User) RemoveRole(role Role) error {
	next := make([]Role, 0, len(u.roles))

	for _, r := range u.roles {
		if !r.Equal(role) {
			next = append(next, r)
		}
	}

	if len(next) == len(u.roles) {
		return nil
	}

	if len(next) == 0 {
		return ErrNoRoles
	}

	if err := validateGuardianLink(next, u.GuardianID); err != nil {
		return err
	}

	u.roles = next

	return nil
}

// WalletOwnership returns the user's wallet ownership.
func (u *User) WalletOwnership() WalletOwnership {
	return u.ownership
}

// SetWalletOwnership unconditionally replaces the user's wallet ownership.
// Whether the referenced wallet exists is the caller's concern.
func (u *User) SetWalletOwnership(ownership WalletOwnership) {
	u.ownership = ownership
}

// HasWallet returns true if the user references a wallet.
func (u *User) HasWallet() bool {
	return u.ownership.HasWallet()
}

// WalletID returns the referenced wallet id, failing with ErrNoWallet.
func (u *User) WalletID() (int32, error) {
	return u.ownership.WalletID()
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	ID         int32     `json:"id"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	GuardianID *int32    `json:"guardian_id,omitempty"`
	HasWallet  bool      `json:"has_wallet"`
	WalletID   int32     `json:"wallet_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
