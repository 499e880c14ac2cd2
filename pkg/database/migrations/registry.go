// Package migrations keeps the ordered list of schema migrations features
// register at startup.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a migration name is registered twice.
var ErrDuplicate = errors.New("migration already registered")

// Func migrates one feature's tables.
type Func func(*gorm.DB) error

type namedMigration struct {
	name string
	fn   Func
}

// Registry runs migrations in registration order.
type Registry struct {
	mu    sync.RWMutex
	list  []namedMigration
	names map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register appends a migration. Names are unique.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return errors.New("migration needs a name and a function")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.names[name] = struct{}{}
	r.list = append(r.list, namedMigration{name: name, fn: fn})
	return nil
}

// Names lists registered migrations in run order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.list))
	for i, m := range r.list {
		out[i] = m.name
	}
	return out
}

// Run executes the registered migrations sequentially. When only is non-empty
// just those names run, still in registration order; an unknown name fails
// before anything is applied.
func (r *Registry) Run(ctx context.Context, db *gorm.DB, log *slog.Logger, only ...string) error {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r.mu.RLock()
	selected := make([]namedMigration, 0, len(r.list))
	want := make(map[string]bool, len(only))
	for _, name := range only {
		if _, ok := r.names[name]; !ok {
			r.mu.RUnlock()
			return fmt.Errorf("unknown migration %q", name)
		}
		want[name] = true
	}
	for _, m := range r.list {
		if len(want) == 0 || want[m.name] {
			selected = append(selected, m)
		}
	}
	r.mu.RUnlock()

	if len(selected) == 0 {
		log.InfoContext(ctx, "no database migrations registered")
		return nil
	}

	tx := db.WithContext(ctx)
	for _, m := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		if err := m.fn(tx); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		log.InfoContext(ctx, "migration completed",
			slog.String("name", m.name),
			slog.Duration("took", time.Since(start)),
		)
	}

	return nil
}

var defaultRegistry = NewRegistry()

// Register adds a migration to the process-wide registry. It panics on a
// duplicate name, which is a wiring bug.
func Register(name string, fn Func) {
	if err := defaultRegistry.Register(name, fn); err != nil {
		panic(err)
	}
}

// Names lists the process-wide registry.
func Names() []string { return defaultRegistry.Names() }

// Run executes the process-wide registry.
func Run(ctx context.Context, db *gorm.DB, log *slog.Logger, only ...string) error {
	return defaultRegistry.Run(ctx, db, log, only...)
}
