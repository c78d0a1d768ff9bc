package bootstrap

import (
	"context"
	"log"

	"tutorly-be/internal/config"
	"tutorly-be/internal/controller"
	"tutorly-be/internal/handler"
	"tutorly-be/internal/pkg/logger"
	"tutorly-be/internal/pkg/mailer"
	"tutorly-be/internal/repository/contract"
	"tutorly-be/internal/repository/implementation"
	"tutorly-be/internal/repository/memory"
	"tutorly-be/internal/repository/supabase"
	"tutorly-be/internal/service"
	"tutorly-be/internal/websocket"
	"tutorly-be/pkg/tutor"
	"tutorly-be/pkg/voice"

	pktNats "tutorly-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ContentController  controller.IContentController
	WaitlistController controller.IWaitlistController
	DemoController     controller.IDemoController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	WaitlistNotifier *service.WaitlistNotifier

	// WebSockets
	SessionHandler *handler.SessionHandler
	WebSocketHub   *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. Optional infrastructure (NATS, Redis,
// SMTP) only logs a warning when unreachable; the demo keeps working.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)
	if !emailService.Enabled() {
		log.Printf("[WARN] SMTP not configured, waitlist confirmations are disabled")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// NATS
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	var eventSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Room updates stay on this instance", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	wsHub := websocket.NewHub(rdb, uuid.NewString(), wsLogger)
	go wsHub.Run(ctx)
	c.WebSocketHub = wsHub

	// 3. Repositories
	waitlistRepo := newWaitlistRepository(db, cfg)
	reportRepo := implementation.NewSessionReportRepository(db)
	roomRepo := memory.NewRoomRepository(cfg.Demo.RoomTTL)

	// 4. Services
	directory := tutor.NewDirectory(cfg.Voice.Assistants)

	waitlistService := service.NewWaitlistService(waitlistRepo, eventPublisher, sysLogger)
	contentService := service.NewContentService(directory)
	adminService := service.NewAdminService(waitlistService, reportRepo, sysLogger)

	demoService := service.NewDemoService(service.DemoServiceOptions{
		Rooms:     roomRepo,
		Directory: directory,
		Voice: voice.Config{
			GatewayURL: cfg.Voice.GatewayURL,
			PublicKey:  cfg.Voice.PublicKey,
		},
		Hub:     wsHub,
		Reports: service.NewReportPublisher(pubSub, cfg.Demo.ReportTopic),
		Events:  eventPublisher,
		Mailer:  emailService,
		Logger:  sysLogger,
	})
	// Rooms must close before the buses they publish to.
	c.closers = append(c.closers, demoService.Shutdown)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Demo.ReportTopic, reportRepo, sysLogger, watermillLogger)
	c.WaitlistNotifier = service.NewWaitlistNotifier(eventSubscriber, emailService, sysLogger)

	// 5. Controllers
	c.ContentController = controller.NewContentController(contentService)
	c.WaitlistController = controller.NewWaitlistController(waitlistService)
	c.DemoController = controller.NewDemoController(demoService)
	c.AdminController = controller.NewAdminController(adminService)
	c.SessionHandler = handler.NewSessionHandler(demoService, wsHub, wsLogger)

	return c
}

func newWaitlistRepository(db *gorm.DB, cfg *config.Config) contract.WaitlistRepository {
	if cfg.Waitlist.Store == config.WaitlistStoreSupabase {
		repo, err := supabase.NewWaitlistRepository(supabase.Config{
			URL:    cfg.Waitlist.SupabaseURL,
			APIKey: cfg.Waitlist.SupabaseKey,
		})
		if err == nil {
			log.Printf("[INFO] Using waitlist store: SUPABASE")
			return repo
		}
		log.Printf("[WARN] Supabase waitlist store unavailable: %v. Falling back to postgres", err)
	}
	log.Printf("[INFO] Using waitlist store: POSTGRES")
	return implementation.NewWaitlistRepository(db)
}

// Close releases infrastructure in reverse start order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
