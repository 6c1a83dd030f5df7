//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"cineverse-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// PushChannel is the low-latency fan-out collaborator. Publish must not block
// on anything beyond the in-memory delivery to current subscribers.
type PushChannel interface {
	Publish(channelKey string, evt event.ChannelEvent)
}

// Task is one unit of background persistence work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// TaskSubmitter enqueues work without waiting for its execution.
// A returned error means the task was never accepted; it is the caller's
// job to log the loss, nothing retries on its behalf.
type TaskSubmitter interface {
	Submit(task Task) error
}
