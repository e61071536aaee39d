package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("failed to get user: %w", Wrap(CodeNotFound, "user not found", errors.New("no rows")))

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, errors.Is(wrapped, ErrUserNotFound))
	assert.False(t, errors.Is(wrapped, ErrRoomNotFound))
	assert.False(t, errors.Is(wrapped, ErrAdminOnly))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodePermissionDenied, CodeOf(fmt.Errorf("ctx: %w", ErrNotOwner)))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("plain")))
	assert.Equal(t, "household not found", MessageOf(ErrHouseholdNotFound))
}
