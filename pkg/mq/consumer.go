package mq

import (
	"context"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/com"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/icinga/icinga2-api/pkg/periodic"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"net/http"
	"time"
)

// Handler processes the commands relayed through the queue.
type Handler interface {
	Add(ctx context.Context, job *Job) (*Reply, error)
	Remove(ctx context.Context, job *Job) (*Reply, error)
	Info(ctx context.Context, job *Job) (*Reply, error)
}

// Consumer reserves jobs one at a time and dispatches them to a Handler.
// Jobs whose handler fails are buried and periodically kicked back to ready.
type Consumer struct {
	queue        *Queue
	handler      Handler
	kickInterval time.Duration
	logger       *logging.Logger

	processed com.Counter
	failed    com.Counter
}

// NewConsumer returns a new Consumer for the given queue and handler.
func NewConsumer(queue *Queue, handler Handler, kickInterval time.Duration, logger *logging.Logger) *Consumer {
	return &Consumer{queue: queue, handler: handler, kickInterval: kickInterval, logger: logger}
}

// Run consumes jobs until ctx is canceled. It blocks.
func (c *Consumer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	periodic.Start(ctx, c.kickInterval, func(tick periodic.Tick) {
		kicked, err := c.queue.Kick(ctx)
		if err != nil {
			c.logger.Errorw("Can't kick buried jobs", zap.Error(err))
			return
		}
		if kicked > 0 {
			c.logger.Infow("Kicked buried jobs back to ready", "jobs", kicked)
		}
	}, periodic.Immediate())

	periodic.Start(ctx, c.logger.Interval(), func(tick periodic.Tick) {
		if count := c.processed.Reset(); count > 0 {
			c.logger.Infof("Processed %d jobs (%d in total)", count, c.processed.Total())
		}
		if count := c.failed.Reset(); count > 0 {
			c.logger.Warnf("Buried %d failed jobs (%d in total)", count, c.failed.Total())
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			raw, err := c.queue.reserve(ctx, time.Second)
			if err == redis.Nil {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				return errors.Wrap(err, "can't reserve job")
			}

			c.process(ctx, raw)
		}
	})

	return g.Wait()
}

// process dispatches one reserved job and acks or buries it.
func (c *Consumer) process(ctx context.Context, raw string) {
	var job Job
	if err := internal.UnmarshalJSON([]byte(raw), &job); err != nil {
		c.logger.Errorw("Burying malformed job", zap.Error(err))
		c.buryJob(ctx, raw)

		return
	}

	reply, err := c.dispatch(ctx, &job)
	if err != nil {
		c.logger.Errorw("Burying failed job", zap.Error(err), "id", job.ID, "cmd", job.Cmd)
		c.buryJob(ctx, raw)

		return
	}

	if err := c.queue.ack(ctx, raw); err != nil {
		c.logger.Errorw("Can't ack job", zap.Error(err), "id", job.ID)
		return
	}

	c.processed.Inc()

	if reply != nil {
		reply.ID = job.ID
		if err := c.queue.reply(ctx, reply); err != nil {
			c.logger.Errorw("Can't publish reply", zap.Error(err), "id", job.ID)
		}
	}
}

// dispatch routes a job by its command.
func (c *Consumer) dispatch(ctx context.Context, job *Job) (*Reply, error) {
	switch job.Cmd {
	case "add":
		return c.handler.Add(ctx, job)
	case "remove":
		return c.handler.Remove(ctx, job)
	case "info":
		return c.handler.Info(ctx, job)
	default:
		return nil, errors.Errorf("unknown command %q", job.Cmd)
	}
}

func (c *Consumer) buryJob(ctx context.Context, raw string) {
	c.failed.Inc()
	if err := c.queue.bury(ctx, raw); err != nil {
		c.logger.Errorw("Can't bury job", zap.Error(err))
	}
}

// BadRequest is a convenience Reply for handlers rejecting a payload.
func BadRequest(status string) *Reply {
	return &Reply{Code: http.StatusBadRequest, Status: status}
}
