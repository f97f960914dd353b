package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReceiptEmailJobPayloadRoundTrip(t *testing.T) {
	payload := ReceiptEmailJobPayload{SponsorshipID: 42}

	got, err := ReceiptEmailJobPayloadFromMap(payload.ToMap())

	assert.NoError(t, err)
	assert.Equal(t, uint(42), got.SponsorshipID)
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := &Job{
		ID:         "job-1",
		Type:       JobTypeSponsorshipExpiry,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("redis unavailable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)
	assert.False(t, job.IsRetryable())

	job.MarkAsFailed("redis unavailable")
	job.MarkAsFailed("redis unavailable")
	assert.Equal(t, 3, job.RetryCount)
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorMsg)
	assert.NotNil(t, job.CompletedAt)
}

func TestProcessReceiptEmailJobRequiresRunner(t *testing.T) {
	SetReceiptRunner(nil)
	q := &Queue{}

	err := q.processReceiptEmailJob(&Job{
		Payload: ReceiptEmailJobPayload{SponsorshipID: 7}.ToMap(),
	})

	assert.Error(t, err)
}

type countingExpiryRunner struct {
	calls int
}

func (r *countingExpiryRunner) ExpireOverdue(now time.Time) (int, error) {
	r.calls++
	return 0, nil
}

func TestProcessSponsorshipExpiryJobUsesRunner(t *testing.T) {
	runner := &countingExpiryRunner{}
	SetExpiryRunner(runner)
	defer SetExpiryRunner(nil)

	q := &Queue{}
	err := q.processSponsorshipExpiryJob(&Job{
		Payload: SponsorshipExpiryJobPayload{RequestedAt: time.Now()}.ToMap(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, runner.calls)
}
