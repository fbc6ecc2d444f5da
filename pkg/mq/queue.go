package mq

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/icinga/icinga2-api/internal"
	"github.com/icinga/icinga2-api/pkg/logging"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"net"
	"strconv"
	"time"
)

// Job is the command envelope relayed through the queue.
type Job struct {
	ID      string          `json:"id"`
	Cmd     string          `json:"cmd"`
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

// Reply is the structured result envelope a handled job produces.
type Reply struct {
	ID     string          `json:"id"`
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Queue implements a small job queue on Redis lists. Ready jobs wait on the
// ready list, a consumer reserves one job at a time by moving it onto the
// reserved list, and jobs whose processing failed are buried instead of
// dropped. A periodic sweep kicks buried jobs back to ready.
type Queue struct {
	client *redis.Client
	name   string
	logger *logging.Logger
}

// NewQueue returns a new Queue on a pre-existing Redis client.
func NewQueue(client *redis.Client, name string, logger *logging.Logger) *Queue {
	return &Queue{client: client, name: name, logger: logger}
}

// NewQueueFromConfig returns a new Queue from Config.
func NewQueueFromConfig(c *Config, logger *logging.Logger) (*Queue, error) {
	tlsConfig, err := c.TlsOptions.MakeConfig(c.Host)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:      net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Password:  c.Password,
		DB:        c.Database,
		TLSConfig: tlsConfig,
	})

	return NewQueue(client, c.Queue, logger), nil
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Close closes the underlying Redis client.
func (q *Queue) Close() error {
	return q.client.Close()
}

func (q *Queue) ready() string    { return q.name + ":ready" }
func (q *Queue) reserved() string { return q.name + ":reserved" }
func (q *Queue) buried() string   { return q.name + ":buried" }
func (q *Queue) results() string  { return q.name + ":results" }

// Put publishes a job. A missing job ID is filled in.
func (q *Queue) Put(ctx context.Context, job *Job) error {
	if job == nil || job.Cmd == "" {
		return errors.New("job command missing")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	raw, err := internal.MarshalJSON(job)
	if err != nil {
		return err
	}

	if err := q.client.LPush(ctx, q.ready(), raw).Err(); err != nil {
		return errors.Wrap(err, "can't put job")
	}

	q.logger.Debugw("Put job", "id", job.ID, "cmd", job.Cmd)

	return nil
}

// reserve moves the oldest ready job onto the reserved list, blocking for at
// most timeout. Returns redis.Nil if no job showed up in time.
func (q *Queue) reserve(ctx context.Context, timeout time.Duration) (string, error) {
	return q.client.BLMove(ctx, q.ready(), q.reserved(), "RIGHT", "LEFT", timeout).Result()
}

// ack drops a processed job from the reserved list.
func (q *Queue) ack(ctx context.Context, raw string) error {
	return errors.Wrap(q.client.LRem(ctx, q.reserved(), 1, raw).Err(), "can't ack job")
}

// bury quarantines a job whose processing failed so that it is neither lost
// nor retried immediately.
func (q *Queue) bury(ctx context.Context, raw string) error {
	pipe := q.client.TxPipeline()
	pipe.LRem(ctx, q.reserved(), 1, raw)
	pipe.LPush(ctx, q.buried(), raw)
	_, err := pipe.Exec(ctx)

	return errors.Wrap(err, "can't bury job")
}

// Kick moves all buried jobs back onto the ready list and
// returns how many it moved.
func (q *Queue) Kick(ctx context.Context) (int, error) {
	kicked := 0
	for {
		err := q.client.LMove(ctx, q.buried(), q.ready(), "RIGHT", "LEFT").Err()
		if err == redis.Nil {
			return kicked, nil
		}
		if err != nil {
			return kicked, errors.Wrap(err, "can't kick buried jobs")
		}

		kicked++
	}
}

// reply publishes the result envelope of a processed job.
func (q *Queue) reply(ctx context.Context, reply *Reply) error {
	raw, err := internal.MarshalJSON(reply)
	if err != nil {
		return err
	}

	return errors.Wrap(q.client.LPush(ctx, q.results(), raw).Err(), "can't publish reply")
}
