package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnauthenticated, KindOf(Unauthenticated("no token")))
	assert.Equal(t, KindAccountDisabled, KindOf(AccountDisabled()))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindConflict, KindOf(Conflict("dup")))

	// Unclassified errors are Internal.
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("project not found")
	wrapped := fmt.Errorf("loading project: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "store failure", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store failure", err.Error())
}

func TestMissingPermissions(t *testing.T) {
	err := MissingPermissions([]string{"assign_project", "view_all_users"})
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, []string{"assign_project", "view_all_users"}, MissingOf(err))

	// Non-denial errors carry no missing list.
	assert.Nil(t, MissingOf(NotFound("x")))
	assert.Nil(t, MissingOf(errors.New("y")))
}
