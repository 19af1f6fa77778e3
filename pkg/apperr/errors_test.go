package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("showtime", "abc")))
	assert.Equal(t, KindConflict, KindOf(Conflict("seat %d is already sold", 4)))
	assert.Equal(t, KindTimeout, KindOf(Timeout("busy")))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("plain error")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", InvalidState("no seat numbers were specified"))
	assert.True(t, IsInvalidState(err))
	assert.False(t, IsConflict(err))
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("movie", "42")
	assert.Equal(t, "movie with id:42 not found", err.Error())
}
