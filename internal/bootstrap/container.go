package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"docs-assistant-be/internal/admin"
	"docs-assistant-be/internal/config"
	"docs-assistant-be/internal/controller"
	"docs-assistant-be/internal/pkg/logger"
	"docs-assistant-be/internal/service"
	"docs-assistant-be/internal/watcher"
	"docs-assistant-be/internal/websocket"
	"docs-assistant-be/pkg/llm/factory"
	"docs-assistant-be/pkg/rag/session"
)

type Container struct {
	// Controllers
	AskController    controller.IAskController
	CorpusController controller.ICorpusController
	AdminController  controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	Watcher         *watcher.Watcher // nil when watching is disabled

	// Shared infrastructure
	WebSocketHub *websocket.Hub
	SessionStore *session.Store // nil when session mode is disabled
	Logger       logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Corpus
	corpusService, err := service.NewCorpusService(cfg.Corpus.Dir, pubSub, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load corpus from %s: %v", cfg.Corpus.Dir, err)
	}

	// 4. LLM provider
	llmProvider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 5. Session store (optional)
	var sessionStore *session.Store
	if cfg.Session.Enabled {
		sessionStore = session.NewStore(llmProvider, session.Config{
			MaxSessions:   cfg.Session.MaxSessions,
			IdleTimeout:   cfg.Session.IdleTimeout,
			SweepInterval: cfg.Session.SweepInterval,
		})
	}

	// 6. Admin settings
	settingsManager := admin.NewSettingsManager(cfg.Admin.SettingsPath, cfg.Admin.SettingsCacheTTL)

	// 7. Ask orchestration
	askService := service.NewAskService(
		corpusService,
		llmProvider,
		sessionStore,
		settingsManager,
		cfg.Retrieval.MaxComponents,
		cfg.Retrieval.MaxTopics,
		sysLogger,
	)

	// 8. WebSocket hub + reload event consumer
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	consumerService := service.NewConsumerService(pubSub, wsHub, sysLogger)

	// 9. Corpus file watcher (optional)
	var corpusWatcher *watcher.Watcher
	if cfg.Corpus.WatchEnabled {
		corpusWatcher, err = watcher.New(cfg.Corpus.Dir, cfg.Corpus.WatchDebounce, corpusService, sysLogger)
		if err != nil {
			log.Printf("[WARN] Corpus watcher unavailable: %v", err)
		}
	}

	return &Container{
		AskController:    controller.NewAskController(askService),
		CorpusController: controller.NewCorpusController(corpusService),
		AdminController:  controller.NewAdminController(settingsManager, corpusService, sysLogger),

		ConsumerService: consumerService,
		Watcher:         corpusWatcher,

		WebSocketHub: wsHub,
		SessionStore: sessionStore,
		Logger:       sysLogger,
	}
}
