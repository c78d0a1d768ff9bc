package service

import (
	"context"
	"encoding/json"
	"time"

	"tutorly-be/internal/dto"
	"tutorly-be/internal/entity"
	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const consumerModule = "ReportConsumer"

// storeAttempts bounds how often one report is tried before it is dropped.
const storeAttempts = 3

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// reportPublisher queues finished sessions on the in-process bus.
type reportPublisher struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewReportPublisher(pubSub *gochannel.GoChannel, topicName string) ReportPublisher {
	return &reportPublisher{pubSub: pubSub, topicName: topicName}
}

func (p *reportPublisher) PublishReport(ctx context.Context, msg dto.SessionReportMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, m)
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	repo      contract.SessionReportRepository
	logger    logger.ILogger
	busLogger watermill.LoggerAdapter
	backoff   time.Duration
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo contract.SessionReportRepository,
	log logger.ILogger,
	busLogger watermill.LoggerAdapter,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		repo:      repo,
		logger:    log,
		busLogger: busLogger,
		backoff:   500 * time.Millisecond,
	}
}

// Consume starts a router that archives every report published on the topic.
// It returns once the router is running; the router stops with ctx.
func (cs *consumerService) Consume(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{}, cs.busLogger)
	if err != nil {
		return err
	}

	// gochannel redelivers a nacked message immediately and forever, so the
	// outermost middleware acks whatever the retries could not store.
	router.AddMiddleware(
		cs.dropExhausted,
		middleware.Retry{
			MaxRetries:      storeAttempts - 1,
			InitialInterval: cs.backoff,
			MaxInterval:     cs.backoff * 4,
			Multiplier:      2,
			Logger:          cs.busLogger,
		}.Middleware,
	)
	router.AddNoPublisherHandler(consumerModule, cs.topicName, cs.pubSub, cs.handleReport)

	go func() {
		if err := router.Run(ctx); err != nil {
			cs.logger.Error(consumerModule, "Report router stopped", map[string]interface{}{"error": err.Error()})
		}
	}()

	select {
	case <-router.Running():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (cs *consumerService) handleReport(msg *message.Message) error {
	var payload dto.SessionReportMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal session report", map[string]interface{}{"error": err.Error()})
		return nil
	}

	if err := cs.repo.Create(msg.Context(), toReportEntity(payload)); err != nil {
		cs.logger.Warn(consumerModule, "Failed to store session report", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		return err
	}

	cs.logger.Info(consumerModule, "Session report archived", map[string]interface{}{
		"room_id":    payload.RoomId,
		"session_id": payload.SessionId,
		"messages":   len(payload.Transcript),
	})
	return nil
}

func (cs *consumerService) dropExhausted(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err != nil {
			cs.logger.Error(consumerModule, "Dropping session report", map[string]interface{}{
				"message_uuid": msg.UUID,
				"error":        err.Error(),
			})
		}
		return produced, nil
	}
}

func toReportEntity(p dto.SessionReportMessage) *entity.SessionReport {
	lines := make([]entity.TranscriptLine, len(p.Transcript))
	for i, l := range p.Transcript {
		lines[i] = entity.TranscriptLine{
			Id:        l.Id,
			Sender:    l.Sender,
			Content:   l.Content,
			Image:     l.Image,
			Timestamp: l.Timestamp,
		}
	}
	return &entity.SessionReport{
		Id:                uuid.New(),
		RoomId:            p.RoomId,
		SessionId:         p.SessionId,
		Subject:           p.Subject,
		Topic:             p.Topic,
		TutorName:         p.TutorName,
		StartedAt:         p.StartedAt,
		EndedAt:           p.EndedAt,
		DurationMinutes:   p.DurationMinutes,
		UserMessages:      p.UserMessages,
		AssistantMessages: p.AssistantMessages,
		Transcript:        lines,
		NotesMarkdown:     p.NotesMarkdown,
		CreatedAt:         time.Now(),
	}
}
