package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	viper.SetDefault("jwt.secret_key", "test-secret")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("argon2.salt_length", 16)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := hashPassword("password123")
	require.NoError(t, err)
	assert.Contains(t, hashed, "$")

	assert.True(t, verifyPassword("password123", hashed))
	assert.False(t, verifyPassword("wrongpassword", hashed))
	assert.False(t, verifyPassword("password123", "not-a-valid-hash"))

	// salts are random, two hashes of the same password differ
	again, err := hashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again)
}

func TestGenerateJWT(t *testing.T) {
	tokenString, err := generateJWT("1234567890")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(viper.GetString("jwt.secret_key")), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "1234567890", claims["account_id"])
}

func TestGenerateAccountID(t *testing.T) {
	id := generateAccountID()
	assert.Len(t, id, 10)
	for _, c := range id {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestAuthService_Verify(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewAuthService(db, nil, nil)
	ctx := context.Background()

	hashed, err := hashPassword("opensesame")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		mock.ExpectQuery("SELECT password FROM users WHERE account_id").
			WithArgs("1234567890").
			WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(hashed))

		ok, err := s.Verify(ctx, "1234567890", "opensesame")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock.ExpectQuery("SELECT password FROM users WHERE account_id").
			WithArgs("1234567890").
			WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(hashed))

		ok, err := s.Verify(ctx, "1234567890", "sesameopen")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown account", func(t *testing.T) {
		mock.ExpectQuery("SELECT password FROM users WHERE account_id").
			WithArgs("0000000000").
			WillReturnRows(sqlmock.NewRows([]string{"password"}))

		ok, err := s.Verify(ctx, "0000000000", "opensesame")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
