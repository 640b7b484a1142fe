package repository

import (
	"context"
	"strings"

	"github.com/unicampus/college-api/internal/models"
)

// Credentials is the role-independent slice of an account that auth flows
// need: identity, contact, and the password hash.
type Credentials struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
}

// AccountDirectory is implemented by each role repository so the auth service
// can resolve accounts without knowing the underlying collection.
type AccountDirectory interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	FindCredentialsByID(ctx context.Context, id string) (*Credentials, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

func joinName(parts ...string) string {
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, " ")
}

// FindCredentialsByEmail implements AccountDirectory for students.
func (r *StudentRepository) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	s, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Credentials{ID: s.ID, FullName: joinName(s.FirstName, s.LastName), Email: s.Email, PasswordHash: s.PasswordHash}, nil
}

// FindCredentialsByID implements AccountDirectory for students.
func (r *StudentRepository) FindCredentialsByID(ctx context.Context, id string) (*Credentials, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Credentials{ID: s.ID, FullName: joinName(s.FirstName, s.LastName), Email: s.Email, PasswordHash: s.PasswordHash}, nil
}

// FindCredentialsByEmail implements AccountDirectory for faculty.
func (r *FacultyRepository) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	f, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Credentials{ID: f.ID, FullName: joinName(f.FirstName, f.LastName), Email: f.Email, PasswordHash: f.PasswordHash}, nil
}

// FindCredentialsByID implements AccountDirectory for faculty.
func (r *FacultyRepository) FindCredentialsByID(ctx context.Context, id string) (*Credentials, error) {
	f, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Credentials{ID: f.ID, FullName: joinName(f.FirstName, f.LastName), Email: f.Email, PasswordHash: f.PasswordHash}, nil
}

// FindCredentialsByEmail implements AccountDirectory for admins.
func (r *AdminRepository) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	a, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Credentials{ID: a.ID, FullName: joinName(a.FirstName, a.LastName), Email: a.Email, PasswordHash: a.PasswordHash}, nil
}

// FindCredentialsByID implements AccountDirectory for admins.
func (r *AdminRepository) FindCredentialsByID(ctx context.Context, id string) (*Credentials, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Credentials{ID: a.ID, FullName: joinName(a.FirstName, a.LastName), Email: a.Email, PasswordHash: a.PasswordHash}, nil
}

// Directories bundles the per-role account directories keyed by role.
func Directories(students *StudentRepository, faculty *FacultyRepository, admins *AdminRepository) map[models.UserRole]AccountDirectory {
	return map[models.UserRole]AccountDirectory{
		models.RoleStudent: students,
		models.RoleFaculty: faculty,
		models.RoleAdmin:   admins,
	}
}
