// Command agui-server serves an AG-UI agent endpoint over SSE.
//
// Usage:
//
//	GEMINI_API_KEY=gk-... agui-server [flags]
//
// Flags:
//
//	-addr string          Listen address (default ":8000")
//	-path string          Endpoint path (default "/awp")
//	-model string         Gemini model ID (default: SDK default)
//	-keepalive duration   Idle keep-alive ping interval, 0 disables (default 15s)
//
// Without GEMINI_API_KEY the server runs a canned demo agent, which is
// enough to exercise clients against the wire protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/aguiproto/agui"
	"github.com/aguiproto/agui/gemini"
	"github.com/aguiproto/agui/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agui-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr      = flag.String("addr", ":8000", "Listen address")
		path      = flag.String("path", server.DefaultPath, "Endpoint path")
		model     = flag.String("model", "", "Gemini model ID (default: SDK default)")
		keepAlive = flag.Duration("keepalive", 15*time.Second, "Idle keep-alive ping interval, 0 disables")
	)
	flag.Parse()

	agent, err := buildAgent(*model, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	e := server.New(agent, server.WithPath(*path), server.WithKeepAlive(*keepAlive))

	go func() {
		if err := e.Start(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()
	log.Printf("agent endpoint on %s%s", *addr, *path)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func buildAgent(model, apiKey string) (agui.Agent, error) {
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, serving the demo agent")
		return demoAgent(), nil
	}
	var opts []gemini.Option
	if model != "" {
		opts = append(opts, gemini.WithModel(model))
	}
	return gemini.New(context.Background(), apiKey, opts...)
}

// demoAgent streams a canned reply echoing the last user message, so the
// endpoint stays usable without credentials.
func demoAgent() agui.Agent {
	return agui.AgentFunc(func(ctx context.Context, input agui.RunAgentInput, sink agui.Sink) error {
		send := func(e agui.Event, err error) error {
			if err != nil {
				return err
			}
			return sink.Send(ctx, e)
		}

		started, err := agui.NewRunStartedEvent(input.ThreadID, input.RunID)
		if err := send(started, err); err != nil {
			return err
		}

		reply := "Hello! This is the demo agent; set GEMINI_API_KEY for a real one."
		if last := lastUserMessage(input.Messages); last != "" {
			reply = fmt.Sprintf("You said: %q. Set GEMINI_API_KEY for a real agent.", last)
		}

		msgID := uuid.NewString()
		start, err := agui.NewTextMessageStartEvent(msgID)
		if err := send(start, err); err != nil {
			return err
		}
		for _, chunk := range server.Chunks(reply, 8) {
			content, err := agui.NewTextMessageContentEvent(msgID, chunk)
			if err := send(content, err); err != nil {
				return err
			}
		}
		end, err := agui.NewTextMessageEndEvent(msgID)
		if err := send(end, err); err != nil {
			return err
		}

		finished, err := agui.NewRunFinishedEvent(input.ThreadID, input.RunID)
		return send(finished, err)
	})
}

func lastUserMessage(msgs []agui.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == agui.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
