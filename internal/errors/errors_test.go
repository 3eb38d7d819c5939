package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/errors"
)

func TestFromDecay_InvalidRecord(t *testing.T) {
	_, err := decay.CurrentDecayedScore(decay.MasteryRecord{ProficiencyScore: 140}, decay.New().Now(), 0)
	require.Error(t, err)

	appErr := errors.FromDecay(fmt.Errorf("mastery 4: %w", err))

	assert.Equal(t, errors.ErrCodeInvalidRecord, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.ErrorIs(t, appErr, decay.ErrInvalidRecord)
}

func TestFromDecay_PassesThroughAppError(t *testing.T) {
	original := errors.NewNotFoundError("mastery", 9)

	assert.Same(t, original, errors.FromDecay(fmt.Errorf("wrapped: %w", original)))
}

func TestFromDecay_UnknownIsInternal(t *testing.T) {
	appErr := errors.FromDecay(stderrors.New("disk on fire"))

	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Nil(t, errors.FromDecay(nil))
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR: validation failed for score: must be within [0,100]",
		errors.NewValidationError("score", "must be within [0,100]").Error())
	assert.Contains(t, errors.NewInternalError(stderrors.New("boom")).Error(), "(boom)")
}

func TestAs(t *testing.T) {
	appErr, ok := errors.As(fmt.Errorf("x: %w", errors.NewConflictError("dup")))
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	_, ok = errors.As(stderrors.New("plain"))
	assert.False(t, ok)
}
