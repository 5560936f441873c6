package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hosteldesk-backend-go/internal/models"
)

func TestCanWithdraw(t *testing.T) {
	assert.NoError(t, CanWithdraw(0, false))
	assert.NoError(t, CanWithdraw(2, false))

	err := CanWithdraw(3, false)
	var serr ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeLimitExceeded, serr.Code)

	// withdrawn wins over the counter
	err = CanWithdraw(3, true)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeAlreadyWithdrawn, serr.Code)

	err = CanWithdraw(0, true)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeAlreadyWithdrawn, serr.Code)
}

func TestAgeDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 0, AgeDays(now, now), 1e-9)
	assert.InDelta(t, 1, AgeDays(now.Add(-24*time.Hour), now), 1e-9)
	assert.InDelta(t, 3.5, AgeDays(now.Add(-84*time.Hour), now), 1e-9)
}

func TestIsOverdue(t *testing.T) {
	assert.False(t, IsOverdue(models.ComplaintStatusPending, 3.0, 3))
	assert.True(t, IsOverdue(models.ComplaintStatusPending, 3.01, 3))
	assert.False(t, IsOverdue(models.ComplaintStatusResolved, 10, 3))
	assert.False(t, IsOverdue(models.ComplaintStatusWithdrawn, 10, 3))
	assert.True(t, IsOverdue(models.ComplaintStatusPending, 8, 7))
}
