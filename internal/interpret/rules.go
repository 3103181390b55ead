package interpret

import (
	"fmt"
	log "log/slog"
	"slices"
	"strconv"
	"strings"

	"valet/internal/tools"
)

// Mode tells the turn handler what to do with a matched invocation.
type Mode int

const (
	// ModeNone means there is nothing to dispatch this turn.
	ModeNone Mode = iota
	// ModeLog dispatches in the background and only logs the result.
	ModeLog
	// ModeSpeakResult dispatches inline and speaks the tool's result.
	ModeSpeakResult
	// ModeAnnounce dispatches in the background and speaks a fixed
	// confirmation or apology when the tool finishes.
	ModeAnnounce
)

// Outcome is the interpreter's verdict on one utterance.
type Outcome struct {
	Rule       string
	Ack        string
	Clarify    string
	Invocation *tools.Invocation
	Mode       Mode
}

// rule is one entry of the ordered trigger table. Rules are evaluated
// top-to-bottom against the lowercased utterance; the first match wins and
// the terminal fallback rule matches everything.
type rule struct {
	name  string
	match func(cmd string) bool
	build func(in *Interpreter, cmd string) Outcome
}

func ruleTable() []rule {
	return []rule{
		{
			name:  "open_app",
			match: func(cmd string) bool { return strings.HasPrefix(cmd, "open ") },
			build: buildOpen,
		},
		{
			name:  "weather",
			match: func(cmd string) bool { return strings.Contains(cmd, "weather") },
			build: buildWeather,
		},
		{
			name:  "search",
			match: func(cmd string) bool { return strings.Contains(cmd, "search for") },
			build: buildSearch,
		},
		{
			name:  "email",
			match: func(cmd string) bool { return strings.Contains(cmd, "send email") },
			build: buildEmail,
		},
		{
			name: "schedule",
			match: func(cmd string) bool {
				return strings.Contains(cmd, "schedule") || strings.Contains(cmd, "remind me")
			},
			build: buildSchedule,
		},
		{
			name: "greet",
			match: func(cmd string) bool {
				return strings.Contains(cmd, "hello") || strings.Contains(cmd, "hi")
			},
			build: buildGreet,
		},
		{
			name:  "fallback",
			match: func(string) bool { return true },
			build: buildFallback,
		},
	}
}

func buildOpen(_ *Interpreter, cmd string) Outcome {
	app := strings.TrimPrefix(cmd, "open ")
	return Outcome{
		Ack:        fmt.Sprintf("Roger that, opening %s.", app),
		Invocation: &tools.Invocation{Tool: "open_app", Args: tools.Args{"app": app}},
		Mode:       ModeLog,
	}
}

func buildWeather(in *Interpreter, cmd string) Outcome {
	city := in.defaultCity
	if i := strings.Index(cmd, "weather in "); i >= 0 {
		if c := strings.TrimSpace(cmd[i+len("weather in "):]); c != "" {
			city = c
		}
	}
	return Outcome{
		Ack:        "Check! Getting the weather.",
		Invocation: &tools.Invocation{Tool: "get_weather", Args: tools.Args{"city": city}},
		Mode:       ModeLog,
	}
}

func buildSearch(_ *Interpreter, cmd string) Outcome {
	query := cmd
	if i := strings.Index(cmd, "search for "); i >= 0 {
		query = cmd[i+len("search for "):]
	}
	return Outcome{
		Ack:        "Will do, searching the web.",
		Invocation: &tools.Invocation{Tool: "search_web", Args: tools.Args{"query": query}},
		Mode:       ModeLog,
	}
}

func buildEmail(_ *Interpreter, cmd string) Outcome {
	out := Outcome{Ack: "Check! Sending your email."}

	to, subject, body, err := extractEmail(cmd)
	if err != nil {
		// The ack is already chosen before extraction runs; a malformed
		// command just skips the email call.
		log.Warn("Failed to parse email command", "input", cmd, "err", err)
		return out
	}

	out.Invocation = &tools.Invocation{
		Tool: "send_email",
		Args: tools.Args{"to": to, "subject": subject, "body": body},
	}
	out.Mode = ModeLog
	return out
}

// extractEmail slices the utterance tokens between the literal markers "to",
// "subject" and "message". The marker grammar is rigid and assumes that
// order; a subject or body containing those words breaks it. Known
// limitation, kept as-is.
func extractEmail(cmd string) (to, subject, body string, err error) {
	parts := strings.Fields(cmd)

	toIdx := slices.Index(parts, "to")
	subjIdx := slices.Index(parts, "subject")
	msgIdx := slices.Index(parts, "message")
	if toIdx < 0 || subjIdx < 0 || msgIdx < 0 {
		return "", "", "", fmt.Errorf("missing marker token")
	}
	if toIdx+1 >= len(parts) {
		return "", "", "", fmt.Errorf("no recipient after 'to'")
	}

	to = parts[toIdx+1]
	if subjIdx+1 <= msgIdx {
		subject = strings.Join(parts[subjIdx+1:msgIdx], " ")
	}
	body = strings.Join(parts[msgIdx+1:], " ")
	return to, subject, body, nil
}

func buildSchedule(in *Interpreter, cmd string) Outcome {
	out := Outcome{Ack: in.scheduleAck}

	if !strings.Contains(cmd, " in ") || !strings.Contains(cmd, " minutes") {
		out.Clarify = "Please specify the time, like 'in 10 minutes'."
		return out
	}

	segments := strings.Split(cmd, " in ")
	title := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(segments[0], "schedule", ""), "remind me to", ""))

	minutes, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(segments[1], " minutes", "")))
	if err != nil {
		log.Warn("Failed to parse schedule command", "input", cmd, "err", err)
		out.Clarify = in.scheduleFail
		return out
	}

	out.Invocation = &tools.Invocation{
		Tool: "schedule_task",
		Args: tools.Args{
			"title":       title,
			"description": title,
			"minutes":     strconv.Itoa(minutes),
		},
	}
	out.Mode = ModeAnnounce
	return out
}

func buildGreet(_ *Interpreter, _ string) Outcome {
	return Outcome{
		Invocation: &tools.Invocation{Tool: "greet_user", Args: tools.Args{}},
		Mode:       ModeSpeakResult,
	}
}

func buildFallback(_ *Interpreter, _ string) Outcome {
	return Outcome{Ack: "Hmm, not sure what that means, Sir."}
}
