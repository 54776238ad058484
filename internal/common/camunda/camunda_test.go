package camunda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"visa-eligibility-workers/internal/common/config"
	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type handlerFunc func(client worker.JobClient, job entities.Job) error

func (f handlerFunc) Handle(client worker.JobClient, job entities.Job) error {
	return f(client, job)
}

type recordedJob struct {
	taskType string
	status   string
}

type fakeRecorder struct {
	mu        sync.Mutex
	processed []recordedJob
	durations int
}

func (r *fakeRecorder) RecordJobProcessed(_ context.Context, taskType, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, recordedJob{taskType, status})
}

func (r *fakeRecorder) RecordJobDuration(context.Context, string, time.Duration, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func testJob(key int64) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: key, Type: "test"}}
}

func testClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

// ==========================
// Worker Instrumentation Tests
// ==========================

func TestInstrument_CountsCompletedJobs(t *testing.T) {
	taskType := "instrument-completed"
	recorder := &fakeRecorder{}
	handle := instrument(taskType, handlerFunc(func(worker.JobClient, entities.Job) error {
		return nil
	}), recorder, logger.NewTestLogger(t))

	handle(nil, testJob(1))
	handle(nil, testJob(2))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	assert.Equal(t, []recordedJob{{taskType, "completed"}, {taskType, "completed"}}, recorder.processed)
	assert.Equal(t, 2, recorder.durations)
}

func TestInstrument_CountsFailuresByCode(t *testing.T) {
	taskType := "instrument-failed"
	recorder := &fakeRecorder{}
	handle := instrument(taskType, handlerFunc(func(worker.JobClient, entities.Job) error {
		return apperrors.NewUnknownSchemeError("H-1")
	}), recorder, logger.NewTestLogger(t))

	handle(nil, testJob(3))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, "UNKNOWN_SCHEME")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, []recordedJob{{taskType, "failed"}}, recorder.processed)
}

func TestInstrument_PlainErrorsCountAsInternal(t *testing.T) {
	taskType := "instrument-plain"
	handle := instrument(taskType, handlerFunc(func(worker.JobClient, entities.Job) error {
		return errors.New("boom")
	}), nil, logger.NewNoOpLogger())

	assert.NotPanics(t, func() { handle(nil, testJob(4)) })
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, "INTERNAL_ERROR")))
}

// ==========================
// Client Retry Tests
// ==========================

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantCode  apperrors.ErrorCode
	}{
		{
			name:      "succeeds first time",
			wantCalls: 1,
		},
		{
			name:      "retries transient errors",
			failures:  []error{errors.New("connection refused"), errors.New("Unavailable")},
			wantCalls: 3,
		},
		{
			name:      "stops on permanent error",
			failures:  []error{errors.New("permission denied")},
			wantCalls: 1,
			wantCode:  apperrors.ErrCodeExternalService,
		},
		{
			name:      "gives up after max retries",
			failures:  []error{errors.New("deadline exceeded"), errors.New("deadline exceeded"), errors.New("deadline exceeded")},
			wantCalls: 3,
			wantCode:  apperrors.ErrCodeTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := testClient(2).ExecuteWithRetry(context.Background(), func(context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, "test")

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), err.Error())
		})
	}
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	c := testClient(5)
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ExecuteWithRetry(ctx, func(context.Context) error {
		return errors.New("connection reset")
	}, "test")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTimeout))
}

func TestMapZeebeError(t *testing.T) {
	notFound := mapZeebeError(errors.New("job NOT FOUND"), "complete", 0)
	assert.True(t, apperrors.HasCode(notFound, apperrors.ErrCodeResourceNotFound))

	other := mapZeebeError(errors.New("boom"), "complete", 2)
	assert.True(t, apperrors.HasCode(other, apperrors.ErrCodeExternalService))
	assert.Contains(t, other.Error(), "after 3 attempts")
}

func TestBackoff(t *testing.T) {
	cfg := &RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	assert.Equal(t, time.Second, backoff(cfg, 0))
	assert.Equal(t, 4*time.Second, backoff(cfg, 2))
	assert.Equal(t, 5*time.Second, backoff(cfg, 3))
	assert.Equal(t, 5*time.Second, backoff(cfg, 70))
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 2500})
	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.Equal(t, 2500*time.Millisecond, cfg.ConnectionTimeout)
	assert.True(t, cfg.UsePlaintextConnection)

	assert.Equal(t, 10*time.Second, ConfigFrom(config.CamundaConfig{}).ConnectionTimeout)
}
