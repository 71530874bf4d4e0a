package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Query(errors.New("syntax error near FROM")))

	assert.True(t, errors.Is(err, ErrQuery))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindQuery, KindOf(err))
}

func TestIs_TokenMessagesAreDistinct(t *testing.T) {
	expired := TokenExpired(errors.New("exp"))

	assert.True(t, errors.Is(expired, ErrToken))
	assert.True(t, errors.Is(expired, ErrTokenExpired))
	assert.False(t, errors.Is(expired, ErrInvalidToken))
}

func TestUnwrap_KeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := ClientInit(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, MsgClientInit, err.Error())
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"query hides cause", Query(errors.New("pq: relation users does not exist")), MsgQuery},
		{"credential", Credential(), MsgCredential},
		{"not found", NotFound("Snippet"), "Snippet not found"},
		{"validation", Validation("email is required", nil), "Validation failed: email is required"},
		{"other", Other("Unknown command: %s", "x"), "Unknown command: x"},
		{"foreign error", errors.New("secret hash $2a$10$..."), MsgUnexpected},
		{"wrapped taxonomy", fmt.Errorf("ctx: %w", InvalidToken(nil)), MsgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.err))
		})
	}
}

func TestDetail_IncludesCause(t *testing.T) {
	err := Query(errors.New("db down"))
	assert.Equal(t, "Database query failed: db down", Detail(err))
	assert.Equal(t, "plain", Detail(errors.New("plain")))
}

func TestKindOf_Foreign(t *testing.T) {
	assert.Equal(t, KindOther, KindOf(errors.New("x")))
	assert.Equal(t, "TokenError", KindToken.String())
	assert.Equal(t, "Other", KindOther.String())
}
