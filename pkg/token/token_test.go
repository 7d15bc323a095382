package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"semillero.org/semillerodigital/internal/entity"
)

func TestService_IssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	user := &entity.User{
		ID:    uuid.New(),
		Email: "maria@example.com",
		Role:  entity.RoleStudent,
	}

	signed, expiresAt, err := svc.Issue(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Verify(signed)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, entity.RoleStudent, claims.Role)
}

func TestService_VerifyExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, _, err := svc.Issue(&entity.User{ID: uuid.New(), Email: "x@example.com", Role: entity.RoleStudent})
	assert.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestService_VerifyWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	signed, _, err := issuer.Issue(&entity.User{ID: uuid.New(), Email: "x@example.com", Role: entity.RoleStudent})
	assert.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
