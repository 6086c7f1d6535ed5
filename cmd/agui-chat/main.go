// Command agui-chat is a terminal chat client for an AG-UI endpoint.
//
// Usage:
//
//	agui-chat [flags]
//
// Flags:
//
//	-url string     Agent endpoint URL (default "http://localhost:8000/awp")
//	-token string   Bearer token sent with each run
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/aguiproto/agui"
	bt "github.com/aguiproto/agui/bubbletea"
	"github.com/aguiproto/agui/client"
	"github.com/aguiproto/agui/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agui-chat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		url   = flag.String("url", "http://localhost:8000"+server.DefaultPath, "Agent endpoint URL")
		token = flag.String("token", "", "Bearer token sent with each run")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var opts []client.Option
	if *token != "" {
		opts = append(opts, client.WithHeader("Authorization", "Bearer "+*token))
	}
	c := client.New(*url, opts...)

	runFn := func(ctx context.Context, input agui.RunAgentInput, onEvent func(agui.Event)) error {
		stream, err := c.Run(ctx, input)
		if err != nil {
			return err
		}
		defer stream.Close()
		for {
			e, err := stream.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			onEvent(e)
		}
	}

	m := bt.New(runFn, agui.NewSession(), agui.DefaultTheme())
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}
