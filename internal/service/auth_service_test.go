package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/library-desk-api/pkg/config"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
)

func testAuthConfig(t *testing.T) config.AuthConfig {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return config.AuthConfig{
		Enabled:           true,
		Secret:            "test_secret",
		Expiration:        time.Hour,
		StaffUsername:     "librarian",
		StaffPasswordHash: string(hash),
	}
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	svc := NewAuthService(testAuthConfig(t), nil, nil)

	result, err := svc.Login(LoginRequest{Username: "librarian", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "librarian", claims.Username)
	assert.Equal(t, "staff", claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(t), nil, nil)

	_, err := svc.Login(LoginRequest{Username: "librarian", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(testAuthConfig(t), nil, nil)

	_, err := svc.Login(LoginRequest{Username: "intruder", Password: "correct horse"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTamperedToken(t *testing.T) {
	svc := NewAuthService(testAuthConfig(t), nil, nil)

	result, err := svc.Login(LoginRequest{Username: "librarian", Password: "correct horse"})
	require.NoError(t, err)

	other := NewAuthService(config.AuthConfig{Secret: "other_secret", Expiration: time.Hour, StaffUsername: "librarian"}, nil, nil)
	_, err = other.ValidateToken(result.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
