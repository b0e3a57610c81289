package caller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "favorites/pkg/domain-errors"
)

var sessions = NewSessionService("test-signing-key", "")

func Test_IssueAndValidate(t *testing.T) {
	token, err := sessions.Issue("42", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := sessions.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, DefaultIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_Issue_RequiresUserID(t *testing.T) {
	_, err := sessions.Issue("", time.Hour)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func Test_Validate_InvalidToken(t *testing.T) {
	_, err := sessions.Validate("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_Validate_ExpiredToken(t *testing.T) {
	token, err := sessions.Issue("42", -time.Hour)
	require.NoError(t, err)

	_, err = sessions.Validate(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_Validate_WrongKey(t *testing.T) {
	other := NewSessionService("another-key", "")
	token, err := other.Issue("42", time.Hour)
	require.NoError(t, err)

	_, err = sessions.Validate(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_Validate_WrongIssuer(t *testing.T) {
	other := NewSessionService("test-signing-key", "someone-else")
	token, err := other.Issue("42", time.Hour)
	require.NoError(t, err)

	_, err = sessions.Validate(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
