package interpret

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet/internal/tools"
)

// recorder collects spoken lines and signals each one.
type recorder struct {
	mu     sync.Mutex
	lines  []string
	signal chan string
}

func newRecorder() *recorder {
	return &recorder{signal: make(chan string, 8)}
}

func (r *recorder) Speak(text string) error {
	r.mu.Lock()
	r.lines = append(r.lines, text)
	r.mu.Unlock()
	r.signal <- text
	return nil
}

func (r *recorder) spoken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case line := <-r.signal:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for spoken line")
		return ""
	}
}

type stubTool struct {
	name   string
	result tools.Result
	invoke func(tools.Args) tools.Result
	calls  chan tools.Args
}

func newStubTool(name string, result tools.Result) *stubTool {
	return &stubTool{name: name, result: result, calls: make(chan tools.Args, 8)}
}

func (s *stubTool) Name() string { return s.name }

func (s *stubTool) Invoke(_ context.Context, args tools.Args) tools.Result {
	s.calls <- args
	if s.invoke != nil {
		return s.invoke(args)
	}
	return s.result
}

func TestHandleGreetSpeaksResult(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(newStubTool("greet_user", tools.Ok("Good evening, User! You have 0 reminders today.")))

	in := New(reg, Options{})
	rec := newRecorder()

	in.Handle(context.Background(), "hello", rec)

	require.Equal(t, []string{"Good evening, User! You have 0 reminders today."}, rec.spoken())
}

func TestHandleFallbackNoDispatch(t *testing.T) {
	stub := newStubTool("open_app", tools.Ok("opened"))
	reg := tools.NewRegistry()
	reg.Register(stub)

	in := New(reg, Options{})
	rec := newRecorder()

	in.Handle(context.Background(), "gibberish input", rec)

	assert.Equal(t, []string{"Hmm, not sure what that means, Sir."}, rec.spoken())
	assert.Empty(t, stub.calls)
}

func TestHandleOpenAppAckThenDispatch(t *testing.T) {
	stub := newStubTool("open_app", tools.Ok("chrome opened successfully!"))
	reg := tools.NewRegistry()
	reg.Register(stub)

	in := New(reg, Options{})
	rec := newRecorder()

	in.Handle(context.Background(), "open chrome", rec)

	assert.Equal(t, "Roger that, opening chrome.", rec.wait(t))

	select {
	case args := <-stub.calls:
		assert.Equal(t, "chrome", args["app"])
	case <-time.After(2 * time.Second):
		t.Fatal("tool was never dispatched")
	}
}

func TestHandleScheduleAnnouncesSuccess(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(newStubTool("schedule_task", tools.Ok("Event 'meeting' created: link")))

	in := New(reg, Options{})
	rec := newRecorder()

	in.Handle(context.Background(), "schedule meeting in 10 minutes", rec)

	assert.Equal(t, "Got it! Scheduling that in your Google Calendar.", rec.wait(t))
	assert.Equal(t, "Event successfully added to Google Calendar, Sir.", rec.wait(t))
}

func TestHandleScheduleAnnouncesFailure(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(newStubTool("schedule_task", tools.Fail("Could not schedule 'meeting' in your calendar.")))

	in := New(reg, Options{})
	rec := newRecorder()

	in.Handle(context.Background(), "schedule meeting in 10 minutes", rec)

	assert.Equal(t, "Got it! Scheduling that in your Google Calendar.", rec.wait(t))
	assert.Equal(t, "I couldn't set that schedule, Sir.", rec.wait(t))
}

func TestHandleScheduleClarification(t *testing.T) {
	stub := newStubTool("schedule_task", tools.Ok("ok"))
	reg := tools.NewRegistry()
	reg.Register(stub)

	in := New(reg, Options{})
	rec := newRecorder()

	in.Handle(context.Background(), "schedule meeting tomorrow", rec)

	assert.Equal(t, []string{
		"Got it! Scheduling that in your Google Calendar.",
		"Please specify the time, like 'in 10 minutes'.",
	}, rec.spoken())
	assert.Empty(t, stub.calls)
}

// A panicking speaker stands in for transport failure inside the turn; the
// recover boundary must answer with the generic apology, not crash.
type panickySpeaker struct {
	apology chan string
	armed   bool
}

func (p *panickySpeaker) Speak(text string) error {
	if !p.armed {
		p.armed = true
		panic("speaker transport blew up")
	}
	p.apology <- text
	return nil
}

func TestHandleRecoversFromPanic(t *testing.T) {
	reg := tools.NewRegistry()
	in := New(reg, Options{})

	spk := &panickySpeaker{apology: make(chan string, 1)}

	require.NotPanics(t, func() {
		in.Handle(context.Background(), "gibberish", spk)
	})

	select {
	case line := <-spk.apology:
		assert.Equal(t, "Apologies, I couldn't process that command.", line)
	case <-time.After(time.Second):
		t.Fatal("no apology spoken after panic")
	}
}
