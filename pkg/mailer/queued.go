package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/unicampus/college-api/pkg/jobs"
)

const jobTypePasswordReset = "password_reset"

type resetJobPayload struct {
	ToEmail string
	ToName  string
	Role    string
	ResetID string
}

// QueuedMailer wraps a Mailer and dispatches through a background queue so
// SMTP round trips stay off the request path.
type QueuedMailer struct {
	queue *jobs.Queue
}

// NewQueuedMailer builds the queue around the delegate mailer. The returned
// queue must be started before the first send and stopped on shutdown. The
// outcome callback, when non-nil, observes each final delivery result.
func NewQueuedMailer(delegate Mailer, cfg jobs.QueueConfig, outcome func(ok bool)) *QueuedMailer {
	handler := func(_ context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(resetJobPayload)
		if !ok {
			return fmt.Errorf("unexpected payload for %s job", job.Type)
		}
		err := delegate.SendPasswordReset(payload.ToEmail, payload.ToName, payload.Role, payload.ResetID)
		if outcome != nil {
			outcome(err == nil)
		}
		return err
	}
	return &QueuedMailer{queue: jobs.NewQueue("mail", handler, cfg)}
}

// Queue exposes the underlying queue for lifecycle control.
func (m *QueuedMailer) Queue() *jobs.Queue {
	return m.queue
}

// SendPasswordReset enqueues the reset mail.
func (m *QueuedMailer) SendPasswordReset(toEmail, toName, role, resetID string) error {
	return m.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypePasswordReset,
		Payload: resetJobPayload{
			ToEmail: toEmail,
			ToName:  toName,
			Role:    role,
			ResetID: resetID,
		},
	})
}
