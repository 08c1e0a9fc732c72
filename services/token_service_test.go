package services

import (
	"testing"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Email: "seller@example.com", UserLevel: models.LevelSeller}

	token, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "seller", claims["role"])

	actor, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, Actor{ID: user.ID.Hex(), Email: user.Email, Level: models.LevelSeller}, actor)
}

func TestTokenService_Rejects(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Email: "buyer@example.com", UserLevel: models.LevelBuyer}

	t.Run("Expired token", func(t *testing.T) {
		expired := NewTokenService("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.GenerateToken(user)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenService("other", time.Hour).GenerateToken(user)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("Wrong token type", func(t *testing.T) {
		token, err := tokens.GenerateToken(user)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token, "refresh")
		assert.Error(t, err)
	})
}
