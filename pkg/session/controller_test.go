package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"tutorly-be/pkg/schedule"
	"tutorly-be/pkg/tutor"
	"tutorly-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVoice struct {
	mu        sync.Mutex
	startErr  error
	hold      string
	cancelled chan string
	selectors []string
	sent      []voice.OutboundMessage
	muted     bool
	events    chan voice.Event
}

func newFakeVoice(startErr error) *fakeVoice {
	return &fakeVoice{startErr: startErr, events: make(chan voice.Event, 16), cancelled: make(chan string, 4)}
}

// holdStart makes Start for selector block until its context is cancelled.
func (f *fakeVoice) holdStart(selector string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = selector
}

func (f *fakeVoice) Start(ctx context.Context, selector string) error {
	f.mu.Lock()
	f.selectors = append(f.selectors, selector)
	hold, err := f.hold == selector, f.startErr
	f.mu.Unlock()
	if hold {
		<-ctx.Done()
		f.cancelled <- selector
		return ctx.Err()
	}
	return err
}

func (f *fakeVoice) Stop() error { return nil }

func (f *fakeVoice) Send(msg voice.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeVoice) SetMuted(muted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = muted
}

func (f *fakeVoice) IsMuted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func (f *fakeVoice) Events() <-chan voice.Event { return f.events }
func (f *fakeVoice) Close() error               { return nil }

func (f *fakeVoice) started() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.selectors...)
}

func (f *fakeVoice) sentContents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Message.Content)
	}
	return out
}

type recorder struct {
	mu      sync.Mutex
	states  []State
	reports []Report
	alerts  []string
}

func (r *recorder) update(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.Type == UpdateAlert {
		r.alerts = append(r.alerts, u.Alert)
	}
	if n := len(r.states); n == 0 || r.states[n-1] != u.State {
		r.states = append(r.states, u.State)
	}
}

func (r *recorder) finalize(rep Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
}

func (r *recorder) stateLog() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) reportCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

type harness struct {
	t      *testing.T
	ctrl   *Controller
	sched  *schedule.Manual
	client *fakeVoice
	rec    *recorder
	dir    *tutor.Directory
}

var testClock = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, startErr error, subject string) *harness {
	t.Helper()
	sched := schedule.NewManual()
	client := newFakeVoice(startErr)
	adapter := voice.NewAdapterWithClient(client, voice.Config{Scheduler: sched}, nil)
	rec := &recorder{}
	dir := tutor.NewDirectory(nil)

	ctrl, err := New(Options{
		RoomID:     "room-1",
		Subject:    subject,
		Adapter:    adapter,
		Directory:  dir,
		Scheduler:  sched,
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Clock:      func() time.Time { return testClock },
		OnUpdate:   rec.update,
		OnFinalize: rec.finalize,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx)
	t.Cleanup(func() {
		_ = ctrl.Close()
		cancel()
	})
	return &harness{t: t, ctrl: ctrl, sched: sched, client: client, rec: rec, dir: dir}
}

func (h *harness) snapshot() Snapshot {
	h.t.Helper()
	snap, err := h.ctrl.Snapshot(context.Background())
	require.NoError(h.t, err)
	return snap
}

func (h *harness) waitFor(cond func(Snapshot) bool, msg string) Snapshot {
	h.t.Helper()
	var last Snapshot
	require.Eventually(h.t, func() bool {
		last = h.snapshot()
		return cond(last)
	}, time.Second, 5*time.Millisecond, msg)
	return last
}

func (h *harness) waitState(s State) Snapshot {
	h.t.Helper()
	return h.waitFor(func(snap Snapshot) bool { return snap.State == s }, "state "+string(s))
}

func (h *harness) waitStarts(n int) {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return len(h.client.started()) == n }, time.Second, 5*time.Millisecond)
}

// connect joins and delivers a remote call-start.
func (h *harness) connect() {
	h.t.Helper()
	n := len(h.client.started())
	require.NoError(h.t, h.ctrl.Join(context.Background()))
	h.waitStarts(n + 1)
	h.client.events <- voice.Event{Kind: voice.EventCallStart}
	h.waitState(StateConnected)
}

func TestTranscriptIsFIFO(t *testing.T) {
	var tr Transcript
	for i := 0; i < 50; i++ {
		tr.Append(Message{ID: string(rune('a' + i%26)), Content: strings.Repeat("x", i)})
	}
	got := tr.Snapshot()
	require.Len(t, got, 50)
	for i, m := range got {
		assert.Len(t, m.Content, i)
	}
}

func TestNewRejectsUnknownSubject(t *testing.T) {
	adapter := voice.NewAdapterWithClient(newFakeVoice(nil), voice.Config{Scheduler: schedule.NewManual()}, nil)
	defer adapter.Close()

	_, err := New(Options{Subject: "alchemy", Adapter: adapter, Rand: rand.New(rand.NewPCG(1, 1))})
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestJoinAndLeaveFinalizesOnce(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()

	h.connect()
	snap := h.snapshot()
	assert.True(t, snap.MicOn)
	assert.Equal(t, []string{h.dir.Selector("math")}, h.client.started())

	_, err := h.ctrl.SendChat(ctx, "What is a discriminant?")
	require.NoError(t, err)

	require.NoError(t, h.ctrl.Leave(ctx))
	snap = h.waitState(StateIdle)
	require.NotNil(t, snap.Notes)
	assert.Equal(t, 1, snap.Notes.UserMessages)
	assert.False(t, snap.MicOn)

	assert.Equal(t, []State{StateConnecting, StateConnected, StateDisconnected, StateIdle}, h.rec.stateLog())
	assert.Equal(t, 1, h.rec.reportCount())

	// a late remote call-end after leaving changes nothing
	h.client.events <- voice.Event{Kind: voice.EventCallEnd}
	h.snapshot()
	assert.Equal(t, 1, h.rec.reportCount())
	assert.ErrorIs(t, h.ctrl.Leave(ctx), ErrNotConnected)
}

func TestRemoteCallEndFinalizes(t *testing.T) {
	h := newHarness(t, nil, "science")
	h.connect()

	h.client.events <- voice.Event{Kind: voice.EventCallEnd}
	snap := h.waitState(StateIdle)
	require.NotNil(t, snap.Notes)
	assert.Equal(t, 1, h.rec.reportCount())
	assert.Contains(t, h.rec.stateLog(), StateDisconnected)
}

func TestJoinRequiresIdle(t *testing.T) {
	h := newHarness(t, nil, "math")
	h.connect()
	assert.ErrorIs(t, h.ctrl.Join(context.Background()), ErrInvalidTransition)
}

func TestLeaveWhileConnectingAbortsWithoutNotes(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()

	require.NoError(t, h.ctrl.Join(ctx))
	require.NoError(t, h.ctrl.Leave(ctx))
	snap := h.waitState(StateIdle)
	assert.Nil(t, snap.Notes)

	// the stale call-start of the abandoned attempt is ignored
	h.client.events <- voice.Event{Kind: voice.EventCallStart}
	assert.Equal(t, StateIdle, h.snapshot().State)
	assert.Zero(t, h.rec.reportCount())
}

func TestPendingStartIsCancelled(t *testing.T) {
	ctx := context.Background()

	t.Run("leave", func(t *testing.T) {
		h := newHarness(t, nil, "math")
		h.client.holdStart(h.dir.Selector("math"))

		require.NoError(t, h.ctrl.Join(ctx))
		h.waitStarts(1)
		require.NoError(t, h.ctrl.Leave(ctx))

		select {
		case sel := <-h.client.cancelled:
			assert.Equal(t, h.dir.Selector("math"), sel)
		case <-time.After(time.Second):
			t.Fatal("pending start was not cancelled")
		}
		h.sched.Advance(voice.DemoStartDelay + voice.DemoGreetingDelay)
		snap := h.snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.False(t, snap.Demo)
		assert.Empty(t, snap.Alert)
	})

	t.Run("subject change", func(t *testing.T) {
		h := newHarness(t, nil, "math")
		h.client.holdStart(h.dir.Selector("math"))

		require.NoError(t, h.ctrl.Join(ctx))
		h.waitStarts(1)
		require.NoError(t, h.ctrl.ChangeSubject(ctx, "science", ""))

		select {
		case sel := <-h.client.cancelled:
			assert.Equal(t, h.dir.Selector("math"), sel)
		case <-time.After(time.Second):
			t.Fatal("pending start was not cancelled")
		}
		h.waitStarts(2)
		assert.Equal(t, h.dir.Selector("science"), h.client.started()[1])

		h.client.events <- voice.Event{Kind: voice.EventCallStart}
		snap := h.waitState(StateConnected)
		assert.Equal(t, "science", snap.Subject)
		assert.False(t, snap.Demo)
		assert.Empty(t, snap.Alert)
	})
}

func TestCriticalStartErrorAlerts(t *testing.T) {
	h := newHarness(t, errors.New("critical: auth failure"), "math")

	require.NoError(t, h.ctrl.Join(context.Background()))
	snap := h.waitFor(func(s Snapshot) bool { return s.Alert != "" }, "alert raised")

	assert.Equal(t, StateIdle, snap.State)
	assert.Contains(t, snap.Alert, "Failed to connect to the assistant.")
	assert.Equal(t, []State{StateConnecting, StateIdle}, h.rec.stateLog())
	assert.Zero(t, h.rec.reportCount())
}

func TestNonCriticalStartErrorRunsDemo(t *testing.T) {
	h := newHarness(t, voice.ErrUnavailable, "math")

	require.NoError(t, h.ctrl.Join(context.Background()))
	h.waitStarts(1)
	h.waitFor(func(s Snapshot) bool { return s.Demo }, "demo mode")
	assert.Equal(t, StateConnecting, h.snapshot().State)

	h.sched.Advance(voice.DemoStartDelay)
	h.waitState(StateConnected)

	h.sched.Advance(voice.DemoGreetingDelay)
	snap := h.waitFor(func(s Snapshot) bool { return len(s.Messages) == 1 }, "greeting appended")
	assert.Equal(t, SenderAssistant, snap.Messages[0].Sender)
	assert.Equal(t, voice.DefaultGreeting, snap.Messages[0].Content)
	assert.True(t, snap.Remote.Active)
	assert.Empty(t, snap.Alert)
}

func TestCriticalErrorEventWhileConnected(t *testing.T) {
	h := newHarness(t, nil, "math")
	h.connect()

	h.client.events <- voice.Event{Kind: voice.EventError, Err: errors.New("network auth expired")}
	snap := h.waitFor(func(s Snapshot) bool { return s.Alert != "" }, "alert raised")
	assert.Equal(t, StateIdle, snap.State)
	assert.Contains(t, snap.Alert, "internet connection")
	assert.Equal(t, 1, h.rec.reportCount())
}

func TestNonCriticalErrorEventIsIgnored(t *testing.T) {
	h := newHarness(t, nil, "math")
	h.connect()

	h.client.events <- voice.Event{Kind: voice.EventError, Err: errors.New("transient glitch")}
	snap := h.snapshot()
	assert.Equal(t, StateConnected, snap.State)
	assert.Empty(t, snap.Alert)
}

func TestSubjectChangeReconnectsOnceWithNewSelector(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()
	h.connect()

	require.NoError(t, h.ctrl.ChangeSubject(ctx, "science", ""))
	snap := h.waitState(StateIdle)
	assert.Equal(t, "science", snap.Subject)
	assert.Equal(t, tutor.Topics("science")[0], snap.Topic)
	assert.Equal(t, 1, h.rec.reportCount())

	h.sched.Advance(ReconnectDelay - time.Millisecond)
	assert.Len(t, h.client.started(), 1)

	h.sched.Advance(time.Millisecond)
	h.waitStarts(2)
	assert.Equal(t, h.dir.Selector("science"), h.client.started()[1])
	h.waitState(StateConnecting)

	var disconnects int
	for _, s := range h.rec.stateLog() {
		if s == StateDisconnected {
			disconnects++
		}
	}
	assert.Equal(t, 1, disconnects)
}

func TestRapidSubjectChangesHonorLatest(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()
	h.connect()

	require.NoError(t, h.ctrl.ChangeSubject(ctx, "science", ""))
	require.NoError(t, h.ctrl.ChangeSubject(ctx, "english", "Poetry"))

	h.sched.Advance(5 * ReconnectDelay)
	h.waitStarts(2)
	h.snapshot()
	assert.Equal(t, []string{h.dir.Selector("math"), h.dir.Selector("english")}, h.client.started())
	assert.Equal(t, "Poetry", h.snapshot().Topic)
	assert.Equal(t, 1, h.rec.reportCount())
}

func TestLeaveCancelsPendingReconnect(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()
	h.connect()

	require.NoError(t, h.ctrl.ChangeSubject(ctx, "history", ""))
	require.NoError(t, h.ctrl.Leave(ctx))
	h.sched.Advance(5 * ReconnectDelay)
	h.snapshot()
	assert.Len(t, h.client.started(), 1)
	assert.Zero(t, h.sched.Pending())
}

func TestChangeSubjectRejectsUnknown(t *testing.T) {
	h := newHarness(t, nil, "math")
	err := h.ctrl.ChangeSubject(context.Background(), "alchemy", "")
	assert.ErrorIs(t, err, ErrUnknownSubject)
	assert.Equal(t, "math", h.snapshot().Subject)
}

func TestInitialTopicSentAfterSettleDelay(t *testing.T) {
	h := newHarness(t, nil, "math")
	h.connect()

	hasTopicIntro := func() bool {
		for _, c := range h.client.sentContents() {
			if strings.HasPrefix(c, "I'm here to study about") {
				return true
			}
		}
		return false
	}

	h.sched.Advance(TopicSettleDelay - time.Millisecond)
	h.snapshot()
	assert.False(t, hasTopicIntro())

	h.sched.Advance(time.Millisecond)
	require.Eventually(t, hasTopicIntro, time.Second, 5*time.Millisecond)
}

func TestSendChatWhileIdleGetsCannedReply(t *testing.T) {
	h := newHarness(t, nil, "coding")
	ctx := context.Background()

	_, err := h.ctrl.SendChat(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msg, err := h.ctrl.SendChat(ctx, "How do loops work?")
	require.NoError(t, err)
	assert.Equal(t, SenderUser, msg.Sender)
	assert.NotEmpty(t, msg.ID)

	h.sched.Advance(TextReplyDelay)
	snap := h.waitFor(func(s Snapshot) bool { return len(s.Messages) == 2 }, "canned reply")
	assert.Equal(t, SenderAssistant, snap.Messages[1].Sender)
	assert.Contains(t, snap.Messages[1].Content, snap.Topic)
	assert.Empty(t, h.client.sentContents())
}

func TestSendChatWhileConnectedForwardsToAssistant(t *testing.T) {
	h := newHarness(t, nil, "math")
	h.connect()

	_, err := h.ctrl.SendChat(context.Background(), "Explain vertex form")
	require.NoError(t, err)
	assert.Contains(t, h.client.sentContents(),
		"The user has selected the topic: "+h.snapshot().Topic+". Explain vertex form")
}

func TestMessageIDsAreUnique(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		m, err := h.ctrl.SendChat(ctx, "hi")
		require.NoError(t, err)
		assert.False(t, seen[m.ID])
		seen[m.ID] = true
	}
}

func TestAttachImage(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()

	_, err := h.ctrl.AttachImage(ctx, "https://example.com/x.png")
	assert.ErrorIs(t, err, ErrInvalidImage)

	m, err := h.ctrl.AttachImage(ctx, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.True(t, m.Image)
	assert.Equal(t, "data:image/png;base64,AAAA", h.snapshot().Messages[0].Content)
}

func TestToggleMicAndMute(t *testing.T) {
	h := newHarness(t, nil, "math")
	ctx := context.Background()

	_, err := h.ctrl.ToggleMic(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = h.ctrl.ToggleMute(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, h.snapshot().Muted)

	require.NoError(t, h.ctrl.Join(ctx))
	h.waitState(StateConnecting)
	_, err = h.ctrl.ToggleMute(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)
	require.NoError(t, h.ctrl.Leave(ctx))
	h.waitState(StateIdle)

	h.connect()
	on, err := h.ctrl.ToggleMic(ctx)
	require.NoError(t, err)
	assert.False(t, on)
	assert.True(t, h.client.IsMuted())

	muted, err := h.ctrl.ToggleMute(ctx)
	require.NoError(t, err)
	assert.True(t, muted)
	assert.True(t, h.snapshot().Muted)
}

func TestAudioActivity(t *testing.T) {
	h := newHarness(t, nil, "math")
	h.connect()

	h.client.events <- voice.Event{Kind: voice.EventSpeechStart}
	snap := h.waitFor(func(s Snapshot) bool { return s.Local.Active }, "speaking")
	for _, l := range snap.Local.Levels {
		assert.GreaterOrEqual(t, l, 20.0)
		assert.Less(t, l, 80.0)
	}

	h.client.events <- voice.Event{Kind: voice.EventSpeechEnd}
	snap = h.waitFor(func(s Snapshot) bool { return !s.Local.Active }, "silent")
	assert.Equal(t, restingAudio().Levels, snap.Local.Levels)

	h.client.events <- voice.Event{Kind: voice.EventVolumeLevel, Volume: 0.05}
	assert.False(t, h.snapshot().Local.Active)
	h.client.events <- voice.Event{Kind: voice.EventVolumeLevel, Volume: 0.5}
	h.waitFor(func(s Snapshot) bool { return s.Local.Active }, "volume above threshold")
}

func TestClosedControllerRejectsCalls(t *testing.T) {
	h := newHarness(t, nil, "math")
	require.NoError(t, h.ctrl.Close())
	assert.ErrorIs(t, h.ctrl.Join(context.Background()), ErrClosed)
}
