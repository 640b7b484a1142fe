package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unicampus/college-api/internal/models"
	"github.com/unicampus/college-api/internal/repository"
	appErrors "github.com/unicampus/college-api/pkg/errors"
)

type mockDirectory struct {
	byEmail map[string]repository.Credentials
	byID    map[string]repository.Credentials
	updated map[string]string
}

func (m *mockDirectory) FindCredentialsByEmail(ctx context.Context, email string) (*repository.Credentials, error) {
	if c, ok := m.byEmail[email]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDirectory) FindCredentialsByID(ctx context.Context, id string) (*repository.Credentials, error) {
	if c, ok := m.byID[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDirectory) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.updated == nil {
		m.updated = make(map[string]string)
	}
	m.updated[id] = passwordHash
	return nil
}

type mockResetTokens struct {
	records map[string]models.PasswordResetToken
	deleted []string
	seq     int
}

func (m *mockResetTokens) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if m.records == nil {
		m.records = make(map[string]models.PasswordResetToken)
	}
	if token.ID == "" {
		m.seq++
		token.ID = fmt.Sprintf("reset-%d", m.seq)
	}
	m.records[token.ID] = *token
	return nil
}

func (m *mockResetTokens) FindByID(ctx context.Context, id string) (*models.PasswordResetToken, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockResetTokens) DeleteForUser(ctx context.Context, userID string, userType models.UserRole) error {
	m.deleted = append(m.deleted, userID)
	for id, r := range m.records {
		if r.UserID == userID && r.UserType == userType {
			delete(m.records, id)
		}
	}
	return nil
}

type mockNotifier struct {
	toEmail string
	toName  string
	role    string
	resetID string
	calls   int
}

func (m *mockNotifier) SendPasswordReset(toEmail, toName, role, resetID string) error {
	m.toEmail = toEmail
	m.toName = toName
	m.role = role
	m.resetID = resetID
	m.calls++
	return nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(t *testing.T) (*AuthService, *mockDirectory, *mockResetTokens, *mockNotifier) {
	t.Helper()
	dir := &mockDirectory{
		byEmail: map[string]repository.Credentials{
			"jane@college.edu": {ID: "stu-1", FullName: "Jane Roe", Email: "jane@college.edu", PasswordHash: hashPassword(t, "correct-horse")},
		},
		byID: map[string]repository.Credentials{
			"stu-1": {ID: "stu-1", FullName: "Jane Roe", Email: "jane@college.edu", PasswordHash: hashPassword(t, "correct-horse")},
		},
	}
	tokens := &mockResetTokens{}
	notifier := &mockNotifier{}
	svc := NewAuthService(
		map[models.UserRole]repository.AccountDirectory{models.RoleStudent: dir},
		tokens, notifier, validator.New(), zap.NewNop(),
		AuthConfig{Secret: "test-secret", TokenExpiry: time.Hour, ResetTTL: 10 * time.Minute, Issuer: "college-api"},
	)
	return svc, dir, tokens, notifier
}

func errorStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	return appErr.Status
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{Email: "jane@college.edu", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", resp.UserID)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{Email: "nobody@college.edu", Password: "whatever1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(t, err))
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.RoleStudent, models.LoginRequest{Email: "jane@college.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(t, err))
}

func TestAuthServiceLoginUnknownRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.RoleFaculty, models.LoginRequest{Email: "jane@college.edu", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errorStatus(t, err))
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(t, err))
}

func TestAuthServiceForgotPasswordSupersedesPriorRequest(t *testing.T) {
	svc, _, tokens, notifier := newAuthFixture(t)
	tokens.records = map[string]models.PasswordResetToken{
		"stale": {ID: "stale", UserID: "stu-1", UserType: models.RoleStudent, Token: "old"},
	}

	err := svc.ForgotPassword(context.Background(), models.RoleStudent, models.ForgotPasswordRequest{Email: "jane@college.edu"})
	require.NoError(t, err)

	assert.Contains(t, tokens.deleted, "stu-1")
	assert.NotContains(t, tokens.records, "stale")
	assert.Len(t, tokens.records, 1)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "jane@college.edu", notifier.toEmail)
	assert.Equal(t, "Jane Roe", notifier.toName)
	assert.Contains(t, tokens.records, notifier.resetID)
}

func TestAuthServiceResetPassword(t *testing.T) {
	svc, dir, tokens, notifier := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), models.RoleStudent, models.ForgotPasswordRequest{Email: "jane@college.edu"})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{ResetID: notifier.resetID, NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	hash, ok := dir.updated["stu-1"]
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pass")))
	assert.Empty(t, tokens.records)
}

func TestAuthServiceResetPasswordUnknownRecord(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{ResetID: "missing", NewPassword: "brand-new-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(t, err))
}

func TestAuthServiceResetPasswordExpiredToken(t *testing.T) {
	svc, _, tokens, _ := newAuthFixture(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "stu-1",
		Role:   models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	tokens.records = map[string]models.PasswordResetToken{
		"r1": {ID: "r1", UserID: "stu-1", UserType: models.RoleStudent, Token: signed},
	}

	err = svc.ResetPassword(context.Background(), models.ResetPasswordRequest{ResetID: "r1", NewPassword: "brand-new-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(t, err))
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, dir, _, _ := newAuthFixture(t)
	claims := &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent}

	err := svc.ChangePassword(context.Background(), claims, models.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "brand-new-pass"})
	require.NoError(t, err)
	assert.Contains(t, dir.updated, "stu-1")
}

func TestAuthServiceChangePasswordWrongCurrent(t *testing.T) {
	svc, dir, _, _ := newAuthFixture(t)
	claims := &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent}

	err := svc.ChangePassword(context.Background(), claims, models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "brand-new-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(t, err))
	assert.Empty(t, dir.updated)
}
