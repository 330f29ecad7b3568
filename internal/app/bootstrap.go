package app

import (
	"context"
	"fmt"
	"strings"

	"skill-bridge/internal/config"
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/delivery/http/routes"
	"skill-bridge/internal/ingest"
	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/queue"
	"skill-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

// New builds the HTTP app over an initialized container. A nil queue
// disables async session analysis.
func New(cfg config.Config, c *Container, hub *ws.Hub) *App {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: ingest.MaxDocumentBytes + 1<<20,
	})

	registerGlobalMiddleware(f, c.Logger)

	sessions := c.NewSessionUsecase(hub)
	var enqueuer handler.AnalysisEnqueuer
	if c.Publisher != nil {
		enqueuer = c.Publisher
	}

	routes.NewRegistry(routes.Handlers{
		Health:   handler.NewHealthHandler(c.CatalogUC, c.Embedder.Model(), c.Redis.Available),
		Catalog:  handler.NewCatalogHandler(c.CatalogUC),
		Analysis: handler.NewAnalysisHandler(c.AnalysisUC),
		Sessions: handler.NewSessionHandler(sessions, enqueuer),
		WS:       ws.NewHandler(hub, sessions, c.Logger),
	}).Register(f)

	return &App{Fiber: f, Hub: hub}
}

// Bootstrap wires the container, the websocket hub and, when a broker is
// configured, the relay of worker session events into the hub.
func Bootstrap(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	hub := ws.NewHub(log)
	done := make(chan struct{})
	go hub.Run(done)

	relayCtx, cancelRelay := context.WithCancel(context.Background())
	if c.Broker != nil {
		ch, err := c.Broker.Channel()
		if err != nil {
			cancelRelay()
			close(done)
			_ = c.Close()
			return nil, nil, err
		}
		events, err := c.Broker.SubscribeSessions(ch)
		if err != nil {
			cancelRelay()
			close(done)
			_ = ch.Close()
			_ = c.Close()
			return nil, nil, err
		}
		go queue.ForwardEvents(relayCtx, events, hub, log)
	}

	app := New(cfg, c, hub)
	cleanup := func() error {
		cancelRelay()
		close(done)
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
