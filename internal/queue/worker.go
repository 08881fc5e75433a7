package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/kcuzner/rstblog/internal/errors"
	"github.com/kcuzner/rstblog/internal/logfields"
)

// Handler executes queued tasks.
type Handler interface {
	CloneRepository(ctx context.Context, task Task) error
	Update(ctx context.Context, task Task) error
}

// Worker consumes tasks from NATS and runs them one at a time. The single
// consumer goroutine serializes builds: a build either completes or the
// whole task fails and must be re-triggered.
type Worker struct {
	conn    *nats.Conn
	subject SubjectMapper
	handler Handler
}

// NewWorker connects to NATS and returns a Worker.
func NewWorker(url, subjectPrefix string, handler Handler) (*Worker, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, errors.QueueError("connect", err).WithContext("url", url)
	}
	return &Worker{conn: conn, subject: SubjectMapper{Prefix: subjectPrefix}, handler: handler}, nil
}

// Run consumes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	msgs := make(chan *nats.Msg, 64)
	sub, err := w.conn.ChanQueueSubscribe(w.subject.All(), "rstblog-workers", msgs)
	if err != nil {
		return errors.QueueError("subscribe", err).WithContext("subject", w.subject.All())
	}
	defer func() { _ = sub.Unsubscribe() }()

	slog.Info("Worker consuming tasks", logfields.Subject(w.subject.All()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgs:
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg) {
	var task Task
	if err := json.Unmarshal(msg.Data, &task); err != nil {
		slog.Error("Discarding malformed task", logfields.Subject(msg.Subject), logfields.Error(err))
		return
	}

	slog.Info("Executing task",
		logfields.TaskID(task.ID),
		logfields.TaskType(string(task.Type)),
		slog.String("trigger", task.Trigger))

	var err error
	switch task.Type {
	case TaskCloneRepository:
		err = w.handler.CloneRepository(ctx, task)
	case TaskUpdate:
		err = w.handler.Update(ctx, task)
	default:
		slog.Warn("Unknown task type", logfields.TaskType(string(task.Type)))
		return
	}

	if err != nil {
		slog.Error("Task failed",
			logfields.TaskID(task.ID),
			logfields.TaskType(string(task.Type)),
			logfields.Error(err))
		return
	}
	slog.Info("Task complete", logfields.TaskID(task.ID), logfields.TaskType(string(task.Type)))
}

// Close closes the connection.
func (w *Worker) Close() {
	if w.conn != nil {
		w.conn.Close()
	}
}
