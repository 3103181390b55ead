// Package tools holds the registry of named capabilities the interpreter
// dispatches to. Every tool returns a single human-readable Result and never
// lets an error or panic escape its boundary.
package tools

import (
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"sync"
)

// Args carries the extracted arguments of one invocation.
type Args map[string]string

// Result is a tool outcome. Failures are encoded in Text; OK distinguishes
// them so callers can decide what to speak without parsing the string.
type Result struct {
	OK   bool
	Text string
}

func Ok(format string, a ...any) Result {
	return Result{OK: true, Text: fmt.Sprintf(format, a...)}
}

func Fail(format string, a ...any) Result {
	return Result{OK: false, Text: fmt.Sprintf(format, a...)}
}

// Tool is an async-dispatchable capability. Invoke must not panic and must
// not block past ctx.
type Tool interface {
	Name() string
	Invoke(ctx context.Context, args Args) Result
}

// Invocation is a resolved (tool, arguments) pair produced by a matched rule.
type Invocation struct {
	Tool string
	Args Args
}

type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs a tool by name. Unknown tools and panicking tools both come
// back as failure Results so a bad invocation can never abort a voice turn.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (res Result) {
	t, ok := r.Get(name)
	if !ok {
		log.Error("Unknown tool", "tool", name)
		return Fail("I don't have a tool called '%s'.", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Tool panicked", "tool", name, "panic", rec)
			res = Fail("Something went wrong while running %s.", name)
		}
	}()

	return t.Invoke(ctx, args)
}
