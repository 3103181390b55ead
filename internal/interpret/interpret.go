// Package interpret turns one transcribed utterance into a spoken
// acknowledgment plus a tool invocation. Matching is ordered keyword rules,
// first match wins; there is no scoring and no backtracking.
package interpret

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	"valet/internal/tools"
)

const dispatchTimeout = 60 * time.Second

// Speaker sends one spoken-text instruction to the hosting session.
type Speaker interface {
	Speak(text string) error
}

// SpeakerFunc adapts a function to the Speaker interface.
type SpeakerFunc func(text string) error

func (f SpeakerFunc) Speak(text string) error { return f(text) }

// Options tunes the interpreter's fixed phrases and defaults.
type Options struct {
	DefaultCity  string
	ScheduleAck  string
	ScheduleOK   string
	ScheduleFail string
}

type Interpreter struct {
	registry *tools.Registry
	rules    []rule

	defaultCity  string
	scheduleAck  string
	scheduleOK   string
	scheduleFail string
}

func New(registry *tools.Registry, opts Options) *Interpreter {
	if opts.DefaultCity == "" {
		opts.DefaultCity = "Manila"
	}
	if opts.ScheduleAck == "" {
		opts.ScheduleAck = "Got it! Scheduling that in your Google Calendar."
	}
	if opts.ScheduleOK == "" {
		opts.ScheduleOK = "Event successfully added to Google Calendar, Sir."
	}
	if opts.ScheduleFail == "" {
		opts.ScheduleFail = "I couldn't set that schedule, Sir."
	}

	return &Interpreter{
		registry:     registry,
		rules:        ruleTable(),
		defaultCity:  opts.DefaultCity,
		scheduleAck:  opts.ScheduleAck,
		scheduleOK:   opts.ScheduleOK,
		scheduleFail: opts.ScheduleFail,
	}
}

// Interpret classifies one utterance against the rule table. It never
// returns an error: extraction failures degrade inside the Outcome.
func (in *Interpreter) Interpret(utterance string) Outcome {
	cmd := strings.ToLower(utterance)

	for _, r := range in.rules {
		if !r.match(cmd) {
			continue
		}
		out := r.build(in, cmd)
		out.Rule = r.name
		return out
	}

	// Unreachable: the fallback rule matches everything.
	out := buildFallback(in, cmd)
	out.Rule = "fallback"
	return out
}

// Handle processes one voice turn end to end: interpret, speak the
// acknowledgment, then dispatch. Nothing raised here may kill the hosting
// session; the recover boundary answers with one generic apology and the
// turn is discarded.
func (in *Interpreter) Handle(ctx context.Context, utterance string, spk Speaker) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Turn processing failed", "input", utterance, "panic", rec)
			in.speak(spk, "Apologies, I couldn't process that command.")
		}
	}()

	out := in.Interpret(utterance)
	log.Info("Interpreted", "rule", out.Rule, "text", utterance)

	if out.Ack != "" {
		in.speak(spk, out.Ack)
	}
	if out.Clarify != "" {
		in.speak(spk, out.Clarify)
		return
	}
	if out.Invocation == nil {
		return
	}

	switch out.Mode {
	case ModeSpeakResult:
		res := in.registry.Dispatch(ctx, out.Invocation.Tool, out.Invocation.Args)
		in.speak(spk, res.Text)

	case ModeAnnounce:
		in.dispatch(out.Invocation, func(res tools.Result) {
			if res.OK {
				in.speak(spk, in.scheduleOK)
			} else {
				in.speak(spk, in.scheduleFail)
			}
		})

	default:
		in.dispatch(out.Invocation, nil)
	}
}

// dispatch runs a tool without holding up the turn. The result is logged;
// done, when set, gets the result so a follow-up line can be spoken.
func (in *Interpreter) dispatch(inv *tools.Invocation, done func(tools.Result)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		res := in.registry.Dispatch(ctx, inv.Tool, inv.Args)
		log.Info("Tool result", "tool", inv.Tool, "ok", res.OK, "result", res.Text)

		if done != nil {
			done(res)
		}
	}()
}

func (in *Interpreter) speak(spk Speaker, text string) {
	if err := spk.Speak(text); err != nil {
		log.Error("Failed to speak", "err", err)
	}
}
