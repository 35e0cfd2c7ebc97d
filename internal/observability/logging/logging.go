package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Module names the component a log line comes from.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type HandlerConfig struct {
	Writer        io.Writer
	Level         slog.Level
	Service       ServiceInfo
	Environment   Environment
	DefaultModule Module
	GCPProjectID  string
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler adds request and trace correlation attributes taken from
// the record's context.
type contextHandler struct {
	slog.Handler
	projectID     string
	defaultModule Module
}

func NewHandler(cfg HandlerConfig) slog.Handler {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	base := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				a.Key = "severity"
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	}).WithAttrs([]slog.Attr{
		slog.Group("service",
			slog.String("name", cfg.Service.Name),
			slog.String("version", cfg.Service.Version),
			slog.String("revision", cfg.Service.Revision),
		),
		slog.String("env", string(cfg.Environment)),
	})

	return &contextHandler{
		Handler:       base,
		projectID:     cfg.GCPProjectID,
		defaultModule: cfg.DefaultModule,
	}
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	module := ModuleFromContext(ctx)
	if module == "" {
		module = h.defaultModule
	}
	if module != "" {
		r.AddAttrs(slog.String("module", string(module)))
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	r.AddAttrs(gcpTraceAttrs(ctx, h.projectID)...)

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{
		Handler:       h.Handler.WithAttrs(attrs),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{
		Handler:       h.Handler.WithGroup(name),
		projectID:     h.projectID,
		defaultModule: h.defaultModule,
	}
}
