package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("No such container: abc")
	err := NewError("start", ErrNotFound, cause)

	assert.Equal(t, "No such container: abc", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrOperationFailed)
}

func TestError_WithoutCause(t *testing.T) {
	err := NewError("info", ErrDaemonUnavailable, nil)

	assert.Equal(t, "daemon unavailable", err.Error())
	assert.ErrorIs(t, err, ErrDaemonUnavailable)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"typed", NewError("logs", ErrNotFound, errors.New("gone")), ErrNotFound},
		{"wrapped typed", fmt.Errorf("outer: %w", NewError("run", ErrImageNotFound, nil)), ErrImageNotFound},
		{"bare sentinel", fmt.Errorf("bad tail: %w", ErrValidation), ErrValidation},
		{"untyped", errors.New("boom"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestRunSpec_Detached(t *testing.T) {
	no := false
	yes := true

	assert.True(t, RunSpec{}.Detached())
	assert.True(t, RunSpec{Detach: &yes}.Detached())
	assert.False(t, RunSpec{Detach: &no}.Detached())
}
