// Package seed holds the datasets written when a store key is absent, and a
// gofakeit generator for demo traffic.
package seed

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/identity"
)

// Account is a roster entry before its password is hashed.
type Account struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	Role           identity.Role
	Department     string
	Specialization string
}

// DefaultAccounts are the back-office accounts of a fresh install. A non-empty
// adminPassword replaces the super admin's default.
func DefaultAccounts(adminPassword string) []Account {
	if adminPassword == "" {
		adminPassword = "Admin@123"
	}
	return []Account{
		{
			Email: "admin@vortexcare.com", Password: adminPassword,
			FirstName: "Ayoluwa", LastName: "Nimi", Phone: "+1234567890",
			Role: identity.RoleSuperAdmin, Department: "Administration",
		},
		{
			Email: "doctor@vortexcare.com", Password: "Doctor@123",
			FirstName: "Sarah", LastName: "Johnson", Phone: "+1234567891",
			Role: identity.RoleDoctor, Department: "General Medicine", Specialization: "Internal Medicine",
		},
		{
			Email: "staff@vortexcare.com", Password: "Staff@123",
			FirstName: "Michael", LastName: "Brown", Phone: "+1234567892",
			Role: identity.RoleStaff, Department: "Reception",
		},
	}
}

// Users hashes accounts into active, verified roster records.
func Users(accounts []Account, hasher identity.PasswordHasher) ([]identity.User, error) {
	now := time.Now().UTC()
	out := make([]identity.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := hasher.Hash(a.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.Email, err)
		}
		out = append(out, identity.User{
			ID:                uuid.NewString(),
			Email:             identity.NormalizeEmail(a.Email),
			PasswordHash:      hash,
			FirstName:         a.FirstName,
			LastName:          a.LastName,
			Phone:             a.Phone,
			Role:              a.Role,
			Department:        a.Department,
			Specialization:    a.Specialization,
			IsActive:          true,
			IsEmailVerified:   true,
			PasswordChangedAt: now,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return out, nil
}
