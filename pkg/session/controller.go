package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tutorly-be/pkg/notes"
	"tutorly-be/pkg/schedule"
	"tutorly-be/pkg/tutor"
	"tutorly-be/pkg/voice"

	"github.com/google/uuid"
)

const logModule = "SESSION"

// VoiceAdapter is the part of *voice.Adapter the controller drives.
type VoiceAdapter interface {
	Start(ctx context.Context, selector string) (voice.StartResult, error)
	Stop()
	Send(msg voice.OutboundMessage)
	SetMuted(muted bool)
	SetHandlers(h voice.Handlers)
	Events() <-chan voice.Event
	Dispatch(ev voice.Event)
	Close() error
}

// Rand is the randomness source for audio levels and synthetic note fields.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type Options struct {
	RoomID  string
	Subject string
	Topic   string

	Adapter   VoiceAdapter
	Directory *tutor.Directory
	Scheduler schedule.Scheduler
	Rand      Rand
	Clock     func() time.Time
	Logger    voice.Logger

	// OnUpdate and OnFinalize run on the controller goroutine and must not block.
	OnUpdate   func(Update)
	OnFinalize func(Report)
}

// Session is one join-to-leave interaction for a subject/topic pair.
type Session struct {
	ID         string
	Subject    string
	Topic      string
	StartedAt  time.Time
	Transcript *Transcript
	Notes      *notes.Document
}

// Report is handed to OnFinalize once per finished session.
type Report struct {
	RoomID    string
	SessionID string
	Subject   string
	Topic     string
	StartedAt time.Time
	EndedAt   time.Time
	Messages  []Message
	Notes     notes.Document
}

// Snapshot is a point-in-time copy of the room.
type Snapshot struct {
	RoomID   string            `json:"room_id"`
	State    State             `json:"state"`
	Subject  string            `json:"subject"`
	Topic    string            `json:"topic"`
	Tutor    tutor.Personality `json:"tutor"`
	MicOn    bool              `json:"mic_on"`
	Muted    bool              `json:"muted"`
	Demo     bool              `json:"demo"`
	Local    AudioActivity     `json:"local_audio"`
	Remote   AudioActivity     `json:"remote_audio"`
	Messages []Message         `json:"messages"`
	Notes    *notes.Document   `json:"notes,omitempty"`
	Alert    string            `json:"alert,omitempty"`
}

// Controller owns every piece of mutable room state. Commands, adapter events
// and timer firings are all applied by the goroutine running Run.
type Controller struct {
	roomID    string
	adapter   VoiceAdapter
	directory *tutor.Directory
	sched     schedule.Scheduler
	rand      Rand
	now       func() time.Time
	log       voice.Logger
	onUpdate  func(Update)
	onFinal   func(Report)

	inbox     chan func()
	quit      chan struct{}
	done      chan struct{}
	started   atomic.Bool
	closeOnce sync.Once

	// loop-owned
	state   State
	subject string
	topic   string
	micOn   bool
	muted   bool
	demo    bool
	alert   string
	local   AudioActivity
	remote  AudioActivity
	session *Session
	notes   *notes.Document

	attempt      int
	dialCancel   context.CancelFunc
	callSeq      int
	speechSeq    int
	reconnectSeq int

	topicTimer  schedule.Handle
	reconnect   schedule.Handle
	speechTick  schedule.Handle
	speechEnd   schedule.Handle
	replyTimers map[int]schedule.Handle
	replySeq    int
}

func New(opts Options) (*Controller, error) {
	if opts.Adapter == nil {
		return nil, fmt.Errorf("session: adapter is required")
	}
	subject := tutor.Normalize(opts.Subject)
	if subject == "" {
		subject = tutor.DefaultSubject
	}
	if !tutor.IsKnown(subject) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, opts.Subject)
	}
	if opts.Directory == nil {
		opts.Directory = tutor.NewDirectory(nil)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.Real()
	}
	if opts.Rand == nil {
		return nil, fmt.Errorf("session: rand source is required")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = voice.NopLogger()
	}
	if opts.RoomID == "" {
		opts.RoomID = uuid.NewString()
	}

	c := &Controller{
		roomID:      opts.RoomID,
		adapter:     opts.Adapter,
		directory:   opts.Directory,
		sched:       opts.Scheduler,
		rand:        opts.Rand,
		now:         opts.Clock,
		log:         opts.Logger,
		onUpdate:    opts.OnUpdate,
		onFinal:     opts.OnFinalize,
		inbox:       make(chan func(), 64),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		state:       StateIdle,
		subject:     subject,
		topic:       firstTopic(subject, opts.Topic),
		local:       restingAudio(),
		remote:      restingAudio(),
		replyTimers: make(map[int]schedule.Handle),
	}

	c.adapter.SetHandlers(voice.Handlers{
		OnCallStart:   c.onCallStart,
		OnCallEnd:     c.onCallEnd,
		OnSpeechStart: c.onSpeechStart,
		OnSpeechEnd:   c.onSpeechEnd,
		OnVolumeLevel: c.onVolumeLevel,
		OnMessage:     c.onMessage,
		OnError:       c.onError,
	})
	return c, nil
}

func (c *Controller) RoomID() string {
	return c.roomID
}

// Run drains the inbound queue until ctx is done or Close is called.
func (c *Controller) Run(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	defer close(c.done)
	events := c.adapter.Events()
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case <-c.quit:
			c.shutdown()
			return
		case fn := <-c.inbox:
			fn()
		case ev := <-events:
			c.adapter.Dispatch(ev)
		}
	}
}

// Close stops the loop, cancels pending timers and releases the adapter.
func (c *Controller) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.quit)
		if c.started.Load() {
			<-c.done
		} else {
			c.shutdown()
		}
		err = c.adapter.Close()
	})
	return err
}

func (c *Controller) shutdown() {
	c.cancelDial()
	schedule.Cancel(c.topicTimer)
	schedule.Cancel(c.reconnect)
	c.cancelSpeech()
	for id, h := range c.replyTimers {
		h.Cancel()
		delete(c.replyTimers, id)
	}
}

// post enqueues fn for the loop. Dropped once the controller is closed.
func (c *Controller) post(fn func()) {
	select {
	case c.inbox <- fn:
	case <-c.quit:
	}
}

// call runs fn on the loop and waits for its result.
func (c *Controller) call(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case c.inbox <- func() { reply <- fn() }:
	case <-c.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-c.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// after schedules fn to run on the loop after d.
func (c *Controller) after(d time.Duration, fn func()) schedule.Handle {
	return c.sched.After(d, func() { c.post(fn) })
}

// Join starts a call with the current subject's assistant.
func (c *Controller) Join(ctx context.Context) error {
	return c.call(ctx, func() error {
		if c.state != StateIdle {
			return ErrInvalidTransition
		}
		c.cancelReconnect()
		c.join()
		return nil
	})
}

// Leave ends the call. A pending connection attempt is abandoned without
// notes; a pending reconnect is cancelled.
func (c *Controller) Leave(ctx context.Context) error {
	return c.call(ctx, func() error {
		switch c.state {
		case StateConnected:
			c.endCall()
			return nil
		case StateConnecting:
			c.abortConnecting()
			return nil
		default:
			if c.reconnect != nil {
				c.cancelReconnect()
				return nil
			}
			return ErrNotConnected
		}
	})
}

// ChangeSubject switches tutor. A live call is finalized and re-established
// with the new assistant after ReconnectDelay; only the newest selection wins.
func (c *Controller) ChangeSubject(ctx context.Context, subject, topic string) error {
	return c.call(ctx, func() error {
		key := tutor.Normalize(subject)
		if !tutor.IsKnown(key) {
			return fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
		}
		c.subject = key
		c.topic = firstTopic(key, topic)
		c.emit(Update{Type: UpdateSubject})

		switch c.state {
		case StateConnected:
			c.endCall()
			c.scheduleReconnect()
		case StateConnecting:
			c.abortConnecting()
			c.join()
		default:
			if c.reconnect != nil {
				c.scheduleReconnect()
			}
		}
		return nil
	})
}

// ChangeTopic switches topic without touching the call.
func (c *Controller) ChangeTopic(ctx context.Context, topic string) error {
	return c.call(ctx, func() error {
		c.topic = firstTopic(c.subject, topic)
		if c.session != nil && c.session.Notes == nil {
			c.session.Topic = c.topic
		}
		c.emit(Update{Type: UpdateSubject})
		return nil
	})
}

// SendChat appends a typed user message. During a call it is forwarded to the
// assistant; otherwise a canned reply follows after TextReplyDelay.
func (c *Controller) SendChat(ctx context.Context, text string) (Message, error) {
	var out Message
	err := c.call(ctx, func() error {
		if strings.TrimSpace(text) == "" {
			return ErrEmptyMessage
		}
		out = c.appendMessage(SenderUser, text, false)

		if c.state == StateConnected {
			c.adapter.Send(voice.AddMessage(voice.RoleSystem,
				fmt.Sprintf("The user has selected the topic: %s. %s", c.topic, text)))
			return nil
		}

		sess := c.session
		reply := fmt.Sprintf("That's a great question about %s! I'll help you with those concepts. Could you tell me more details?", c.topic)
		c.replySeq++
		id := c.replySeq
		c.replyTimers[id] = c.after(TextReplyDelay, func() {
			delete(c.replyTimers, id)
			if c.session != sess || sess.Notes != nil {
				return
			}
			c.appendMessage(SenderAssistant, reply, false)
		})
		return nil
	})
	return out, err
}

// AttachImage adds a captured image, as a data URI, to the transcript.
func (c *Controller) AttachImage(ctx context.Context, dataURI string) (Message, error) {
	var out Message
	err := c.call(ctx, func() error {
		if !strings.HasPrefix(dataURI, "data:image/") {
			return ErrInvalidImage
		}
		out = c.appendMessage(SenderUser, dataURI, true)
		return nil
	})
	return out, err
}

// ToggleMic flips the microphone during a call and returns the new state.
func (c *Controller) ToggleMic(ctx context.Context) (bool, error) {
	var on bool
	err := c.call(ctx, func() error {
		if c.state != StateConnected {
			return ErrNotConnected
		}
		c.micOn = !c.micOn
		c.adapter.SetMuted(!c.micOn)
		on = c.micOn
		c.emit(Update{Type: UpdateState})
		return nil
	})
	return on, err
}

// ToggleMute flips speaker output during a call and returns the new state.
func (c *Controller) ToggleMute(ctx context.Context) (bool, error) {
	var muted bool
	err := c.call(ctx, func() error {
		if c.state != StateConnected {
			return ErrNotConnected
		}
		c.muted = !c.muted
		muted = c.muted
		c.emit(Update{Type: UpdateState})
		return nil
	})
	return muted, err
}

func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := c.call(ctx, func() error {
		snap = c.snapshot()
		return nil
	})
	return snap, err
}

// Notes returns the most recent finished notes, if any.
func (c *Controller) Notes(ctx context.Context) (*notes.Document, error) {
	var doc *notes.Document
	err := c.call(ctx, func() error {
		if c.notes != nil {
			d := *c.notes
			doc = &d
		}
		return nil
	})
	return doc, err
}

func (c *Controller) snapshot() Snapshot {
	snap := Snapshot{
		RoomID:  c.roomID,
		State:   c.state,
		Subject: c.subject,
		Topic:   c.topic,
		Tutor:   tutor.BySubject(c.subject),
		MicOn:   c.micOn,
		Muted:   c.muted,
		Demo:    c.demo,
		Local:   c.local,
		Remote:  c.remote,
		Alert:   c.alert,
	}
	if c.session != nil {
		snap.Messages = c.session.Transcript.Snapshot()
	} else {
		snap.Messages = []Message{}
	}
	if c.notes != nil {
		d := *c.notes
		snap.Notes = &d
	}
	return snap
}

// --- transitions ---

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.log.Info(logModule, "State change", map[string]interface{}{
		"room": c.roomID,
		"from": string(c.state),
		"to":   string(s),
	})
	c.state = s
	c.emit(Update{Type: UpdateState})
}

func (c *Controller) join() {
	c.alert = ""
	c.ensureSession()
	c.setState(StateConnecting)

	c.cancelDial()
	c.attempt++
	attempt := c.attempt
	selector := c.directory.Selector(c.subject)
	ctx, cancel := context.WithCancel(context.Background())
	c.dialCancel = cancel
	go func() {
		defer cancel()
		res, err := c.adapter.Start(ctx, selector)
		c.post(func() { c.onStartResult(attempt, res, err) })
	}()
}

// cancelDial abandons an in-flight adapter start so a late handshake cannot
// bring up a call nobody is waiting for.
func (c *Controller) cancelDial() {
	if c.dialCancel != nil {
		c.dialCancel()
		c.dialCancel = nil
	}
}

func (c *Controller) onStartResult(attempt int, res voice.StartResult, err error) {
	if attempt != c.attempt || c.state != StateConnecting {
		return
	}
	c.dialCancel = nil
	if err != nil {
		c.fail(err)
		return
	}
	c.demo = res.Demo
	c.adapter.Send(voice.AddMessage(voice.RoleSystem, "The user has selected the topic: "+c.topic))
	c.emit(Update{Type: UpdateState})
}

func (c *Controller) abortConnecting() {
	c.attempt++
	c.cancelDial()
	c.adapter.Stop()
	c.demo = false
	c.setState(StateIdle)
}

// fail drops back to idle after a critical error and raises an alert.
func (c *Controller) fail(err error) {
	c.log.Error(logModule, "Voice connection failed", map[string]interface{}{
		"room":  c.roomID,
		"error": err.Error(),
	})
	c.attempt++
	switch c.state {
	case StateConnected:
		c.endCall()
	case StateConnecting:
		c.cancelDial()
		c.adapter.Stop()
		c.demo = false
		c.setState(StateIdle)
	}
	c.alert = voice.AlertText(err)
	c.emit(Update{Type: UpdateAlert, Alert: c.alert})
}

// endCall takes a connected room through disconnected, finalizing the
// session exactly once, and back to idle.
func (c *Controller) endCall() {
	schedule.Cancel(c.topicTimer)
	c.topicTimer = nil
	c.cancelSpeech()
	c.adapter.Stop()

	c.micOn = false
	c.demo = false
	c.local.rest()
	c.remote.rest()
	c.setState(StateDisconnected)
	c.finalize()
	c.setState(StateIdle)
}

func (c *Controller) scheduleReconnect() {
	schedule.Cancel(c.reconnect)
	c.reconnectSeq++
	seq := c.reconnectSeq
	c.reconnect = c.after(ReconnectDelay, func() {
		if seq != c.reconnectSeq {
			return
		}
		c.reconnect = nil
		if c.state == StateIdle {
			c.join()
		}
	})
}

func (c *Controller) cancelReconnect() {
	schedule.Cancel(c.reconnect)
	c.reconnect = nil
	c.reconnectSeq++
}

func (c *Controller) ensureSession() *Session {
	if c.session == nil || c.session.Notes != nil {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		c.session = &Session{
			ID:         id.String(),
			Subject:    c.subject,
			Topic:      c.topic,
			StartedAt:  c.now(),
			Transcript: &Transcript{},
		}
	}
	return c.session
}

func (c *Controller) appendMessage(sender Sender, content string, image bool) Message {
	sess := c.ensureSession()
	m := newMessage(sender, content, c.now())
	m.Image = image
	sess.Transcript.Append(m)
	c.emit(Update{Type: UpdateMessage, Message: &m})
	return m
}

func (c *Controller) finalize() {
	sess := c.session
	if sess == nil || sess.Notes != nil {
		return
	}

	messages := sess.Transcript.Snapshot()
	in := notes.Input{
		Subject:  sess.Subject,
		Topic:    sess.Topic,
		Messages: make([]notes.Message, 0, len(messages)),
		Now:      c.now(),
		Rand:     c.rand,
	}
	for _, m := range messages {
		role := notes.RoleUser
		if m.Sender == SenderAssistant {
			role = notes.RoleAssistant
		}
		in.Messages = append(in.Messages, notes.Message{Role: role, Content: m.Content})
	}
	doc := notes.Synthesize(in)
	sess.Notes = &doc
	c.notes = &doc

	c.log.Info(logModule, "Session notes generated", map[string]interface{}{
		"room":     c.roomID,
		"session":  sess.ID,
		"messages": len(messages),
	})
	c.emit(Update{Type: UpdateNotes, Notes: &doc})

	if c.onFinal != nil {
		c.onFinal(Report{
			RoomID:    c.roomID,
			SessionID: sess.ID,
			Subject:   sess.Subject,
			Topic:     sess.Topic,
			StartedAt: sess.StartedAt,
			EndedAt:   doc.GeneratedAt,
			Messages:  messages,
			Notes:     doc,
		})
	}
}

// --- adapter handlers, invoked from Dispatch on the loop ---

func (c *Controller) onCallStart() {
	if c.state != StateConnecting {
		return
	}
	c.callSeq++
	seq := c.callSeq
	c.micOn = true
	c.setState(StateConnected)

	schedule.Cancel(c.topicTimer)
	topicAtStart := c.topic
	c.topicTimer = c.after(TopicSettleDelay, func() {
		if seq != c.callSeq || c.state != StateConnected {
			return
		}
		c.topicTimer = nil
		topic := c.topic
		if topic == "" {
			topic = topicAtStart
		}
		c.adapter.Send(voice.AddMessage(voice.RoleSystem, fmt.Sprintf(
			"I'm here to study about %s. Please help me learn about this topic and provide explanations, examples, and practice questions related to %s.",
			topic, topic)))
	})
}

func (c *Controller) onCallEnd() {
	if c.state != StateConnected {
		return
	}
	c.log.Info(logModule, "Call ended by remote", map[string]interface{}{"room": c.roomID})
	c.endCall()
}

func (c *Controller) onSpeechStart() {
	c.local.Active = true
	c.local.fill(c.rand, 20, 60)
	c.emit(Update{Type: UpdateAudio})
}

func (c *Controller) onSpeechEnd() {
	c.local.rest()
	c.emit(Update{Type: UpdateAudio})
}

func (c *Controller) onVolumeLevel(v float64) {
	if v > 0.1 {
		c.local.Active = true
		c.local.fill(c.rand, 0, v*200)
	} else {
		c.local.Active = false
	}
	c.emit(Update{Type: UpdateAudio})
}

func (c *Controller) onMessage(msg map[string]any) {
	text, ok := voice.AssistantText(msg)
	if !ok || text == "" {
		return
	}
	if c.state != StateConnected && c.state != StateConnecting {
		return
	}
	c.appendMessage(SenderAssistant, text, false)
	c.animateSpeech(time.Duration(len([]rune(text))) * speechPerLetter)
}

func (c *Controller) onError(err error) {
	if err == nil {
		return
	}
	if !voice.IsCritical(err) {
		c.log.Warn(logModule, "Voice error handled", map[string]interface{}{
			"room":  c.roomID,
			"error": err.Error(),
		})
		return
	}
	if c.state == StateConnecting || c.state == StateConnected {
		c.fail(err)
	}
}

// animateSpeech shows the assistant as speaking for d, refreshing the bars
// every speechTick.
func (c *Controller) animateSpeech(d time.Duration) {
	c.cancelSpeech()
	seq := c.speechSeq

	c.remote.Active = true
	c.remote.fill(c.rand, 15, 40)
	c.emit(Update{Type: UpdateAudio})

	var tick func()
	tick = func() {
		if seq != c.speechSeq {
			return
		}
		c.remote.fill(c.rand, 15, 40)
		c.emit(Update{Type: UpdateAudio})
		c.speechTick = c.after(speechTick, tick)
	}
	c.speechTick = c.after(speechTick, tick)
	c.speechEnd = c.after(d, func() {
		if seq != c.speechSeq {
			return
		}
		c.cancelSpeech()
		c.remote.rest()
		c.emit(Update{Type: UpdateAudio})
	})
}

func (c *Controller) cancelSpeech() {
	c.speechSeq++
	schedule.Cancel(c.speechTick)
	schedule.Cancel(c.speechEnd)
	c.speechTick, c.speechEnd = nil, nil
}

func firstTopic(subject, topic string) string {
	if t := strings.TrimSpace(topic); t != "" {
		return t
	}
	if list := tutor.Topics(subject); len(list) > 0 {
		return list[0]
	}
	return tutor.BySubject(subject).DefaultTopic
}
