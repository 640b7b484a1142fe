package mailer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicampus/college-api/pkg/jobs"
)

type recordingMailer struct {
	mu      sync.Mutex
	resetID string
	calls   int
}

func (r *recordingMailer) SendPasswordReset(toEmail, toName, role, resetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetID = resetID
	r.calls++
	return nil
}

func TestQueuedMailerDeliversThroughQueue(t *testing.T) {
	delegate := &recordingMailer{}
	var mu sync.Mutex
	outcomes := []bool{}
	qm := NewQueuedMailer(delegate, jobs.QueueConfig{Workers: 1}, func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, ok)
	})

	qm.Queue().Start(context.Background())
	defer qm.Queue().Stop()

	require.NoError(t, qm.SendPasswordReset("jane@college.edu", "Jane Roe", "student", "reset-1"))

	assert.Eventually(t, func() bool {
		delegate.mu.Lock()
		defer delegate.mu.Unlock()
		return delegate.calls == 1 && delegate.resetID == "reset-1"
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(outcomes) == 1 && outcomes[0]
	}, time.Second, 10*time.Millisecond)
}

func TestQueuedMailerRejectsWhenStopped(t *testing.T) {
	qm := NewQueuedMailer(&recordingMailer{}, jobs.QueueConfig{Workers: 1}, nil)

	err := qm.SendPasswordReset("jane@college.edu", "Jane Roe", "student", "reset-1")
	assert.Error(t, err)
}
