// Package rest serves the pipeline over HTTP using fiber.
package rest

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Ports holds the services the HTTP API exposes.
type Ports struct {
	Ingest    driving.IngestService
	Index     driving.IndexService
	Retrieval driving.RetrievalService
	Chat      driving.ChatService
}

// Config controls middleware and limits.
type Config struct {
	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string

	// BodyLimitMB caps request bodies, uploads included. Zero keeps fiber's default.
	BodyLimitMB int

	// Version is reported by /health.
	Version string

	// AccessLog enables per-request logging.
	AccessLog bool
}

// Server is the HTTP API.
type Server struct {
	app   *fiber.App
	ports *Ports
}

// NewServer creates a server for ports.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if ports == nil {
		return nil, errors.New("ports required")
	}
	if ports.Ingest == nil || ports.Index == nil || ports.Retrieval == nil || ports.Chat == nil {
		return nil, errors.New("ingest, index, retrieval, and chat services required")
	}

	fcfg := fiber.Config{
		AppName:      "ragline",
		ErrorHandler: errorHandler,
	}
	if cfg.BodyLimitMB > 0 {
		fcfg.BodyLimit = cfg.BodyLimitMB * 1024 * 1024
	}

	s := &Server{app: fiber.New(fcfg), ports: ports}

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if cfg.AccessLog {
		s.app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${respHeader:X-Request-ID} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	if len(cfg.CORSOrigins) > 0 {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
		}))
	}

	s.routes(cfg.Version)
	return s, nil
}

func (s *Server) routes(version string) {
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": version})
	})
	s.app.Post("/upload", s.upload)
	s.app.Post("/embed", s.index)
	s.app.Post("/index", s.index)
	s.app.Get("/retrieve", s.retrieve)
	s.app.Post("/chat", s.chat)
	s.app.Get("/ids", s.knownIDs)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	logger.Info("HTTP API listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	}
}
