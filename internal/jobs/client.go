package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/suteetoe/tenantportal/pkg/config"
)

// RedisOpt converts the shared redis settings into asynq connection options
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client enqueues portal tasks for cmd/worker
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueMarkOverdue queues a one-off overdue sweep
func (c *Client) EnqueueMarkOverdue(ctx context.Context, payload MarkOverduePayload) (*asynq.TaskInfo, error) {
	task, err := NewMarkOverdueTask(payload)
	if err != nil {
		return nil, err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", TypeMarkOverdue, err)
	}
	return info, nil
}
