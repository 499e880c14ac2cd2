// Package notificationtest provides a recording notifier for tests.
package notificationtest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Call is one recorded notification.
type Call struct {
	UserID  uuid.UUID
	Kind    types.TemplateKind
	Payload map[string]any
}

// Recorder captures notifications and answers with Result.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	Result bool
}

// Notify records the call.
func (r *Recorder) Notify(_ context.Context, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{UserID: userID, Kind: kind, Payload: payload})
	return r.Result
}

// Calls returns the recorded calls of kind.
func (r *Recorder) Calls(kind types.TemplateKind) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Call{}
	for _, c := range r.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
