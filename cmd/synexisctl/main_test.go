package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/synexis/synexis-admin/jobs"
)

type stubQueue struct {
	tasks  []*asynq.Task
	stats  QueueStats
	err    error
	closed bool
}

func (s *stubQueue) Enqueue(ctx context.Context, task *asynq.Task) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.tasks = append(s.tasks, task)
	return &asynq.TaskInfo{ID: "t-1", Queue: jobs.QueueDefault, Type: task.Type()}, nil
}

func (s *stubQueue) Stats(ctx context.Context) (QueueStats, error) { return s.stats, s.err }

func (s *stubQueue) Close() error {
	s.closed = true
	return nil
}

func run(t *testing.T, q *stubQueue, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(func() (Queue, error) { return q, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEnqueueWarmup(t *testing.T) {
	q := &stubQueue{}
	out, err := run(t, q, "enqueue", jobs.TaskDropdownWarmup, "--resource", "brand,unit")
	require.NoError(t, err)
	require.Contains(t, out, "enqueued dropdown:warmup as t-1 on queue default")
	require.True(t, q.closed)

	require.Len(t, q.tasks, 1)
	var payload jobs.DropdownWarmupPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	require.Equal(t, []string{"brand", "unit"}, payload.Resources)
}

func TestEnqueueUnknownTask(t *testing.T) {
	q := &stubQueue{}
	_, err := run(t, q, "enqueue", "mail:send")
	require.ErrorContains(t, err, `unknown task "mail:send"`)
	require.Empty(t, q.tasks)
}

func TestEnqueueReportsQueueError(t *testing.T) {
	q := &stubQueue{err: errors.New("redis down")}
	_, err := run(t, q, "enqueue", jobs.TaskDropdownWarmup)
	require.ErrorContains(t, err, "redis down")
}

func TestQueueStats(t *testing.T) {
	q := &stubQueue{stats: QueueStats{Queue: "default", Pending: 2, Retry: 1}}
	out, err := run(t, q, "queue")
	require.NoError(t, err)
	require.Equal(t, "queue default: pending=2 active=0 scheduled=0 retry=1 archived=0\n", out)

	out, err = run(t, q, "queue", "--json")
	require.NoError(t, err)
	require.JSONEq(t, `{"queue":"default","pending":2,"active":0,"scheduled":0,"retry":1,"archived":0}`, out)
}
