package tools

import (
	"context"
	"time"

	"valet/internal/reminder"
)

// Greet builds a time-of-day greeting and reports how many reminders have
// been collected this session. It only ever reads the store.
type Greet struct {
	defaultName string
	store       *reminder.Store
	now         func() time.Time
}

func NewGreet(defaultName string, store *reminder.Store) *Greet {
	return &Greet{defaultName: defaultName, store: store, now: time.Now}
}

func (g *Greet) Name() string { return "greet_user" }

func (g *Greet) Invoke(_ context.Context, args Args) Result {
	name := args["name"]
	if name == "" {
		name = g.defaultName
	}

	var greeting string
	switch hour := g.now().Hour(); {
	case hour < 12:
		greeting = "Good morning"
	case hour < 18:
		greeting = "Good afternoon"
	default:
		greeting = "Good evening"
	}

	return Ok("%s, %s! You have %d reminders today.", greeting, name, g.store.Count())
}
