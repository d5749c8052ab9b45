package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

func TestParseIsCaseInsensitive(t *testing.T) {
	got, err := TeacherVetting.Parse(" active ")
	require.NoError(t, err)
	assert.Equal(t, models.TeacherActive, got)

	got2, err := RequestLifecycle.Parse("Approved")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got2)
}

func TestParseRejectsUnknownLabel(t *testing.T) {
	_, err := AppointmentLifecycle.Parse("DONE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.Contains(t, err.Error(), "SCHEDULED, COMPLETED, CANCELLED")

	_, err = TeacherVetting.Parse("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPermissiveRelabelAllowsAnyMove(t *testing.T) {
	got, err := RequestLifecycle.Relabel(models.RequestApproved, "pending")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, got)

	got2, err := AppointmentLifecycle.Relabel(models.AppointmentCancelled, "scheduled")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, got2)
}

func TestStrictRelabelEnforcesTable(t *testing.T) {
	strict := RequestLifecycle.Strict(true)

	got, err := strict.Relabel(models.RequestPending, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got)

	_, err = strict.Relabel(models.RequestApproved, "pending")
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	same, err := strict.Relabel(models.RequestRejected, "REJECTED")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, same)
}

func TestStrictCopyLeavesOriginalPermissive(t *testing.T) {
	_ = TeacherVetting.Strict(true)
	_, err := TeacherVetting.Relabel(models.TeacherActive, "pending")
	assert.NoError(t, err)
}
