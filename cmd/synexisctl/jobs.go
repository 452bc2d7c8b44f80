package main

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	"github.com/synexis/synexis-admin/jobs"
)

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
}

// Queue is what the commands need from Asynq.
type Queue interface {
	Enqueue(ctx context.Context, task *asynq.Task) (*asynq.TaskInfo, error)
	Stats(ctx context.Context) (QueueStats, error)
	Close() error
}

// asynqQueue talks to the worker queue through Redis.
type asynqQueue struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

func newAsynqQueue(redisAddr string) (*asynqQueue, error) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client, err := jobs.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &asynqQueue{client: client, inspector: asynq.NewInspector(opts)}, nil
}

func (q *asynqQueue) Enqueue(ctx context.Context, task *asynq.Task) (*asynq.TaskInfo, error) {
	return q.client.Enqueue(ctx, task)
}

func (q *asynqQueue) Stats(ctx context.Context) (QueueStats, error) {
	info, err := q.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
	}
	return stats, nil
}

func (q *asynqQueue) Close() error {
	return errors.Join(q.inspector.Close(), q.client.Close())
}
