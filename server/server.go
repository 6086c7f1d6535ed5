// Package server mounts an agent behind an HTTP endpoint speaking the
// protocol: POST starts a run and streams the agent's events back as
// server-sent events.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aguiproto/agui"
)

// DefaultPath is where the run endpoint is mounted unless WithPath says
// otherwise.
const DefaultPath = "/awp"

type config struct {
	path      string
	keepAlive time.Duration
}

// Option configures the endpoint.
type Option func(*config)

// WithPath mounts the run endpoint at path instead of DefaultPath.
func WithPath(path string) Option {
	return func(c *config) { c.path = path }
}

// WithKeepAlive emits a ping frame whenever the stream has been idle for
// d, so proxies do not reap slow runs. Zero disables pings.
func WithKeepAlive(d time.Duration) Option {
	return func(c *config) { c.keepAlive = d }
}

// New returns an echo instance serving the agent, with Logger and
// Recover middleware installed. It implements http.Handler; start it
// with its own Start or mount it under an existing server.
func New(agent agui.Agent, opts ...Option) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	Register(e, agent, opts...)
	return e
}

// Register mounts the agent's run endpoint on an existing echo instance,
// leaving middleware to the caller.
func Register(e *echo.Echo, agent agui.Agent, opts ...Option) {
	cfg := config{path: DefaultPath}
	for _, o := range opts {
		o(&cfg)
	}
	h := &handler{agent: agent, keepAlive: cfg.keepAlive}
	e.POST(cfg.path, h.run)
	e.OPTIONS(cfg.path, h.preflight)
}

type handler struct {
	agent     agui.Agent
	keepAlive time.Duration
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// preflight answers the CORS preflight. The agent is never invoked.
func (h *handler) preflight(c echo.Context) error {
	header := c.Response().Header()
	setCORSHeaders(header)
	header.Set("Access-Control-Max-Age", "86400")
	return c.NoContent(http.StatusNoContent)
}

// run binds the request, commits the stream response, and drives the
// agent through a sink writing to it.
func (h *handler) run(c echo.Context) error {
	var input agui.RunAgentInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	resp := c.Response()
	header := resp.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	setCORSHeaders(header)
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	sink := newSinkWriter(resp, h.keepAlive)
	defer sink.stop()

	ctx := c.Request().Context()
	if err := h.agent.RunAgent(ctx, input, sink); err != nil && ctx.Err() == nil {
		// The consumer is still listening; report the failure in-band.
		if ev, cerr := agui.NewRunErrorEvent(err.Error()); cerr == nil {
			_ = sink.Send(context.Background(), ev)
		}
	}
	return nil
}
