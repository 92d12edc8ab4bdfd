package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractClaims(t *testing.T) {
	token, err := GenerateToken("user-1", "asha@example.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestExtractClaims_RejectsExpiredAndTampered(t *testing.T) {
	expired, err := GenerateToken("user-1", "asha@example.com", "customer", -time.Minute)
	require.NoError(t, err)
	_, err = ExtractClaims(expired)
	assert.Error(t, err)

	valid, err := GenerateToken("user-1", "asha@example.com", "customer", time.Hour)
	require.NoError(t, err)
	_, err = ExtractClaims(valid + "x")
	assert.Error(t, err)
}
