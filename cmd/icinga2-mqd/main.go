package main

import (
	"context"
	"github.com/icinga/icinga2-api/internal/command"
	"github.com/okzk/sdnotify"
	"golang.org/x/sync/errgroup"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cmd := command.New("icinga2-mqd")
	logger := cmd.Logger
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := cmd.Client()
	queue := cmd.Queue()
	defer queue.Close()

	consumer := newConsumer(cmd, client, queue)

	logger.Infow("Starting queue consumer", "queue", queue.Name())
	_ = sdnotify.Ready()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(ctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		_ = sdnotify.Stopping()
		logger.Fatalf("%+v", err)
	}

	logger.Info("Shutting down")
	_ = sdnotify.Stopping()
}
