package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squareupapp/squareup-server/internal/auth"
	"github.com/squareupapp/squareup-server/internal/user"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	mgr := auth.NewJWTManager("test-secret", time.Hour)

	u := &user.User{ID: uuid.New(), Username: "alice"}

	token, err := mgr.Generate(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := auth.NewJWTManager("secret-a", time.Hour)
	verifier := auth.NewJWTManager("secret-b", time.Hour)

	token, err := issuer.Generate(&user.User{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_Expired(t *testing.T) {
	mgr := auth.NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.Generate(&user.User{ID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	mgr := auth.NewJWTManager("test-secret", time.Hour)

	_, err := mgr.Validate("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
