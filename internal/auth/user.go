package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRole int

const (
	UserRoleReadWrite UserRole = iota
	UserRoleReadOnly
)

var InsufficientPermissions = errors.New("Insufficient permissions")

func ParseUserRole(s string) (UserRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "read_write", "rw":
		return UserRoleReadWrite, nil
	case "read_only", "ro":
		return UserRoleReadOnly, nil
	}
	return UserRoleReadWrite, fmt.Errorf("invalid user role %q; expected read_write or read_only", s)
}

func (r UserRole) String() string {
	if r == UserRoleReadOnly {
		return "read_only"
	}
	return "read_write"
}

type User struct {
	Id       string
	Name     string
	Password []byte
	Role     UserRole
}

// NewUser hashes password with bcrypt. Passwords longer than 72 bytes are
// rejected by bcrypt.
func NewUser(name, password string, role UserRole) (*User, error) {
	if name == "" {
		return nil, errors.New("user name is required")
	}
	hashed_password, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{uuid.New().String(), name, hashed_password, role}, nil
}

func (u *User) ValidateUser(name, password string) bool {
	return u.Name == name && bcrypt.CompareHashAndPassword(u.Password, []byte(password)) == nil
}

func (u *User) HasClearance(r UserRole) bool { return u.Role <= r }
