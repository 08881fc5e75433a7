package queue

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
)

// Publisher enqueues tasks on NATS.
type Publisher struct {
	conn    *nats.Conn
	subject SubjectMapper
}

// SubjectMapper maps task types to NATS subjects under a configured prefix.
type SubjectMapper struct {
	Prefix string
}

// For returns the subject a task type is published to.
func (s SubjectMapper) For(taskType TaskType) string {
	return s.Prefix + "." + string(taskType)
}

// All returns the wildcard subject covering every task type.
func (s SubjectMapper) All() string {
	return s.Prefix + ".>"
}

// NewPublisher connects to NATS and returns a Publisher.
func NewPublisher(url, subjectPrefix string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, errors.QueueError("connect", err).WithContext("url", url)
	}
	slog.Info("Connected to NATS", logfields.URL(url))
	return &Publisher{conn: conn, subject: SubjectMapper{Prefix: subjectPrefix}}, nil
}

// Enqueue publishes one task.
func (p *Publisher) Enqueue(task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return errors.QueueError("marshal task", err)
	}
	subject := p.subject.For(task.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.QueueError("publish", err).WithContext("subject", subject)
	}
	slog.Debug("Enqueued task",
		logfields.TaskID(task.ID),
		logfields.TaskType(string(task.Type)),
		logfields.Subject(subject))
	return nil
}

// EnqueueRebuild enqueues the two ordered tasks of a rebuild: the
// idempotent repository setup followed by the update.
func (p *Publisher) EnqueueRebuild(trigger string) error {
	if err := p.Enqueue(NewTask(TaskCloneRepository, trigger)); err != nil {
		return err
	}
	return p.Enqueue(NewTask(TaskUpdate, trigger))
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Flush()
		p.conn.Close()
	}
}
