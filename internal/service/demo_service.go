package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/entity"
	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/pkg/mailer"
	"tutorly-be/internal/repository/contract"
	"tutorly-be/pkg/events"
	"tutorly-be/pkg/notes"
	"tutorly-be/pkg/schedule"
	"tutorly-be/pkg/session"
	"tutorly-be/pkg/sketch"
	"tutorly-be/pkg/tutor"
	"tutorly-be/pkg/voice"

	"github.com/google/uuid"
)

const demoModule = "DemoService"

var (
	ErrRoomNotFound  = errors.New("demo room not found")
	ErrNotesNotReady = errors.New("no session notes yet")
	ErrUnknownAction = errors.New("unknown pointer action")
)

// RoomBroadcaster pushes room updates to connected sockets.
type RoomBroadcaster interface {
	BroadcastToRoom(roomID, kind string, payload interface{})
}

// ReportPublisher hands finished sessions to the archive.
type ReportPublisher interface {
	PublishReport(ctx context.Context, msg dto.SessionReportMessage) error
}

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IDemoService interface {
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetRoom(ctx context.Context, roomID string) (*dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, roomID string) error

	Join(ctx context.Context, roomID string) (*dto.RoomResponse, error)
	Leave(ctx context.Context, roomID string) (*dto.RoomResponse, error)
	ChangeSubject(ctx context.Context, roomID string, req *dto.ChangeSubjectRequest) (*dto.RoomResponse, error)
	ChangeTopic(ctx context.Context, roomID string, req *dto.ChangeTopicRequest) (*dto.RoomResponse, error)
	SendChat(ctx context.Context, roomID string, req *dto.SendChatRequest) (*session.Message, error)
	AttachImage(ctx context.Context, roomID string, req *dto.AttachImageRequest) (*session.Message, error)
	ToggleMic(ctx context.Context, roomID string) (*dto.ToggleResponse, error)
	ToggleMute(ctx context.Context, roomID string) (*dto.ToggleResponse, error)

	Notes(ctx context.Context, roomID string) (*dto.NotesResponse, error)
	ExportNotes(ctx context.Context, roomID string, format notes.Format) (*NotesExport, error)
	EmailNotes(ctx context.Context, roomID string, req *dto.EmailNotesRequest) error

	Sketch(ctx context.Context, roomID string) (*dto.SketchResponse, error)
	SetTool(ctx context.Context, roomID string, req *dto.SetToolRequest) (*dto.SketchResponse, error)
	Pointer(ctx context.Context, roomID string, req *dto.PointerRequest) (*dto.PointerResponse, error)
	ClearSketch(ctx context.Context, roomID string) error
	Calculate(ctx context.Context, roomID string, req *dto.CalculateRequest) (*sketch.Entry, error)
	CalculatorHistory(ctx context.Context, roomID string) ([]sketch.Entry, error)

	Shutdown()
}

type NotesExport struct {
	FileName    string
	ContentType string
	Body        []byte
}

// AdapterFactory builds the voice adapter for a new room.
type AdapterFactory func(roomID string) session.VoiceAdapter

type DemoServiceOptions struct {
	Rooms     contract.RoomRepository
	Directory *tutor.Directory
	Voice     voice.Config
	Hub       RoomBroadcaster
	Reports   ReportPublisher
	Events    EventPublisher
	Mailer    mailer.IEmailService
	Logger    logger.ILogger

	// Optional; tests swap these.
	NewAdapter AdapterFactory
	Scheduler  schedule.Scheduler
	Clock      func() time.Time
}

type demoService struct {
	rooms      contract.RoomRepository
	directory  *tutor.Directory
	hub        RoomBroadcaster
	reports    ReportPublisher
	events     EventPublisher
	mailer     mailer.IEmailService
	logger     logger.ILogger
	newAdapter AdapterFactory
	sched      schedule.Scheduler
	now        func() time.Time
}

func NewDemoService(opts DemoServiceOptions) IDemoService {
	s := &demoService{
		rooms:      opts.Rooms,
		directory:  opts.Directory,
		hub:        opts.Hub,
		reports:    opts.Reports,
		events:     opts.Events,
		mailer:     opts.Mailer,
		logger:     opts.Logger,
		newAdapter: opts.NewAdapter,
		sched:      opts.Scheduler,
		now:        opts.Clock,
	}
	if s.directory == nil {
		s.directory = tutor.NewDirectory(nil)
	}
	if s.sched == nil {
		s.sched = schedule.Real()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newAdapter == nil {
		cfg := opts.Voice
		if cfg.Greeting == nil {
			cfg.Greeting = demoGreeting(s.directory)
		}
		if cfg.Scheduler == nil {
			cfg.Scheduler = s.sched
		}
		log := s.logger
		s.newAdapter = func(string) session.VoiceAdapter {
			return voice.NewAdapter(cfg, log)
		}
	}
	return s
}

// demoGreeting scripts the first assistant line per tutor when no live
// assistant is reachable.
func demoGreeting(dir *tutor.Directory) func(string) string {
	return func(selector string) string {
		subject, ok := dir.SubjectFor(selector)
		if !ok || subject == tutor.DefaultSubject {
			return voice.DefaultGreeting
		}
		p := tutor.BySubject(subject)
		return fmt.Sprintf("Hey there! I'm %s, and I'm excited to help you with %s today! "+
			"I'm currently running in demo mode, but I can still guide you through some %s concepts. "+
			"What would you like to explore first?",
			p.Name, strings.ToLower(p.DefaultTopic), strings.ToLower(p.Subject))
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (s *demoService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	roomID := id.String()

	adapter := s.newAdapter(roomID)
	ctrl, err := session.New(session.Options{
		RoomID:    roomID,
		Subject:   req.Subject,
		Topic:     req.Topic,
		Adapter:   adapter,
		Directory: s.directory,
		Scheduler: s.sched,
		Rand:      newRand(),
		Clock:     s.now,
		Logger:    s.logger,
		OnUpdate: func(u session.Update) {
			if s.hub != nil {
				s.hub.BroadcastToRoom(roomID, string(u.Type), u)
			}
		},
		OnFinalize: s.archive,
	})
	if err != nil {
		adapter.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(runCtx)

	room := entity.NewDemoRoom(roomID, ctrl, sketch.NewSurface(newRand()), sketch.NewKeypad(s.now), s.now(), cancel)
	s.rooms.Save(room)

	s.logger.Info(demoModule, "Demo room created", map[string]interface{}{"room_id": roomID, "subject": req.Subject})
	return s.respond(ctx, room)
}

func (s *demoService) room(roomID string) (*entity.DemoRoom, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	s.rooms.Touch(roomID)
	return room, nil
}

func (s *demoService) respond(ctx context.Context, room *entity.DemoRoom) (*dto.RoomResponse, error) {
	snap, err := room.Session.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RoomResponse{Snapshot: snap, CreatedAt: room.CreatedAt}, nil
}

// withRoom runs op against the room and answers with a fresh snapshot.
func (s *demoService) withRoom(ctx context.Context, roomID string, op func(*entity.DemoRoom) error) (*dto.RoomResponse, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	if op != nil {
		if err := op(room); err != nil {
			return nil, err
		}
	}
	return s.respond(ctx, room)
}

func (s *demoService) GetRoom(ctx context.Context, roomID string) (*dto.RoomResponse, error) {
	return s.withRoom(ctx, roomID, nil)
}

func (s *demoService) DeleteRoom(ctx context.Context, roomID string) error {
	if _, ok := s.rooms.Get(roomID); !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	s.rooms.Delete(roomID)
	s.logger.Info(demoModule, "Demo room disposed", map[string]interface{}{"room_id": roomID})
	return nil
}

func (s *demoService) Join(ctx context.Context, roomID string) (*dto.RoomResponse, error) {
	return s.withRoom(ctx, roomID, func(r *entity.DemoRoom) error {
		return r.Session.Join(ctx)
	})
}

func (s *demoService) Leave(ctx context.Context, roomID string) (*dto.RoomResponse, error) {
	return s.withRoom(ctx, roomID, func(r *entity.DemoRoom) error {
		return r.Session.Leave(ctx)
	})
}

func (s *demoService) ChangeSubject(ctx context.Context, roomID string, req *dto.ChangeSubjectRequest) (*dto.RoomResponse, error) {
	return s.withRoom(ctx, roomID, func(r *entity.DemoRoom) error {
		return r.Session.ChangeSubject(ctx, req.Subject, req.Topic)
	})
}

func (s *demoService) ChangeTopic(ctx context.Context, roomID string, req *dto.ChangeTopicRequest) (*dto.RoomResponse, error) {
	return s.withRoom(ctx, roomID, func(r *entity.DemoRoom) error {
		return r.Session.ChangeTopic(ctx, req.Topic)
	})
}

func (s *demoService) SendChat(ctx context.Context, roomID string, req *dto.SendChatRequest) (*session.Message, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	msg, err := room.Session.SendChat(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *demoService) AttachImage(ctx context.Context, roomID string, req *dto.AttachImageRequest) (*session.Message, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	msg, err := room.Session.AttachImage(ctx, req.DataURI)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *demoService) ToggleMic(ctx context.Context, roomID string) (*dto.ToggleResponse, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	on, err := room.Session.ToggleMic(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{Enabled: on}, nil
}

func (s *demoService) ToggleMute(ctx context.Context, roomID string) (*dto.ToggleResponse, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	muted, err := room.Session.ToggleMute(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleResponse{Enabled: muted}, nil
}

func (s *demoService) notes(ctx context.Context, roomID string) (*notes.Document, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	doc, err := room.Session.Notes(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotesNotReady
	}
	return doc, nil
}

func (s *demoService) Notes(ctx context.Context, roomID string) (*dto.NotesResponse, error) {
	doc, err := s.notes(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &dto.NotesResponse{Document: *doc, HTML: notes.RenderHTML(doc.Markdown)}, nil
}

func (s *demoService) ExportNotes(ctx context.Context, roomID string, format notes.Format) (*NotesExport, error) {
	doc, err := s.notes(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return &NotesExport{
		FileName:    notes.FileName(s.now(), format),
		ContentType: format.ContentType(),
		Body:        notes.Export(*doc, format),
	}, nil
}

// EmailNotes sends the latest notes as an HTML attachment.
func (s *demoService) EmailNotes(ctx context.Context, roomID string, req *dto.EmailNotesRequest) error {
	doc, err := s.notes(ctx, roomID)
	if err != nil {
		return err
	}
	if s.mailer == nil || !s.mailer.Enabled() {
		return mailer.ErrMailerDisabled
	}

	body := notes.Export(*doc, notes.FormatHTML)
	if err := s.mailer.SendSessionNotes(req.Email, doc.Subject, body, notes.FileName(s.now(), notes.FormatHTML)); err != nil {
		s.logger.Error(demoModule, "Failed to email session notes", map[string]interface{}{"room_id": roomID, "error": err.Error()})
		return err
	}
	s.logger.Info(demoModule, "Session notes emailed", map[string]interface{}{"room_id": roomID})
	return nil
}

func (s *demoService) sketchResponse(room *entity.DemoRoom) *dto.SketchResponse {
	st := room.Surface.Snapshot()
	return &dto.SketchResponse{State: st, SVG: sketch.SVG(st)}
}

func (s *demoService) broadcastSketch(room *entity.DemoRoom) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(room.Id, "sketch", room.Surface.Snapshot())
	}
}

func (s *demoService) Sketch(ctx context.Context, roomID string) (*dto.SketchResponse, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	return s.sketchResponse(room), nil
}

func (s *demoService) SetTool(ctx context.Context, roomID string, req *dto.SetToolRequest) (*dto.SketchResponse, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	if err := room.Surface.SetTool(sketch.Tool(req.Tool)); err != nil {
		return nil, err
	}
	s.broadcastSketch(room)
	return s.sketchResponse(room), nil
}

func (s *demoService) Pointer(ctx context.Context, roomID string, req *dto.PointerRequest) (*dto.PointerResponse, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}

	p := sketch.Point{X: req.X, Y: req.Y}
	res := &dto.PointerResponse{}
	switch req.Action {
	case dto.PointerDown:
		expr, err := room.Surface.PointerDown(p)
		if err != nil {
			return nil, err
		}
		res.Accepted, res.Expression = true, expr
	case dto.PointerMove:
		res.Accepted = room.Surface.PointerMove(p)
	case dto.PointerUp, dto.PointerLeave:
		room.Surface.PointerUp()
		res.Accepted = true
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	if res.Accepted {
		s.broadcastSketch(room)
	}
	return res, nil
}

func (s *demoService) ClearSketch(ctx context.Context, roomID string) error {
	room, err := s.room(roomID)
	if err != nil {
		return err
	}
	room.Surface.Clear()
	s.broadcastSketch(room)
	return nil
}

func (s *demoService) Calculate(ctx context.Context, roomID string, req *dto.CalculateRequest) (*sketch.Entry, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	entry := room.Keypad.Evaluate(req.Expression)
	return &entry, nil
}

func (s *demoService) CalculatorHistory(ctx context.Context, roomID string) ([]sketch.Entry, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}
	return room.Keypad.History(), nil
}

func (s *demoService) Shutdown() {
	s.rooms.Flush()
}

// archive runs on the room's controller goroutine, so the bus calls are
// handed off.
func (s *demoService) archive(rep session.Report) {
	msg := reportMessage(rep)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.reports != nil {
			if err := s.reports.PublishReport(ctx, msg); err != nil {
				s.logger.Error(demoModule, "Failed to queue session report", map[string]interface{}{
					"room_id": rep.RoomID, "session_id": rep.SessionID, "error": err.Error(),
				})
			}
		}
		if s.events != nil {
			evt := events.NewSessionFinished(rep.RoomID, rep.SessionID, rep.Subject, rep.Topic, len(rep.Messages), rep.EndedAt)
			if err := s.events.Publish(ctx, evt); err != nil {
				s.logger.Warn(demoModule, "Failed to publish session event", map[string]interface{}{"error": err.Error()})
			}
		}
	}()
}

func reportMessage(rep session.Report) dto.SessionReportMessage {
	lines := make([]dto.TranscriptLineResponse, len(rep.Messages))
	for i, m := range rep.Messages {
		lines[i] = dto.TranscriptLineResponse{
			Id:        m.ID,
			Sender:    string(m.Sender),
			Content:   m.Content,
			Image:     m.Image,
			Timestamp: m.Timestamp,
		}
	}
	return dto.SessionReportMessage{
		RoomId:            rep.RoomID,
		SessionId:         rep.SessionID,
		Subject:           rep.Subject,
		Topic:             rep.Topic,
		TutorName:         rep.Notes.TutorName,
		StartedAt:         rep.StartedAt,
		EndedAt:           rep.EndedAt,
		DurationMinutes:   rep.Notes.DurationMinutes,
		UserMessages:      rep.Notes.UserMessages,
		AssistantMessages: rep.Notes.AssistantMessages,
		Transcript:        lines,
		NotesMarkdown:     rep.Notes.Markdown,
	}
}
