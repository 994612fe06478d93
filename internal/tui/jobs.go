package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/paperscope/internal/observability"
)

type jobKind string

type jobStatus string

const (
	jobKindList     jobKind = "list"
	jobKindPaper    jobKind = "paper"
	jobKindRecs     jobKind = "recommendations"
	jobKindSearch   jobKind = "search"
	jobKindExplain  jobKind = "explain"
	jobKindFullText jobKind = "fulltext"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// jobRunner performs one remote call. The returned message is delivered to
// Update even when err is non-nil; err only feeds the job telemetry.
type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	timeout time.Duration
	log     zerolog.Logger
}

func newJobBus(timeout time.Duration, logger zerolog.Logger) *jobBus {
	return &jobBus{timeout: timeout, log: logger}
}

func (b *jobBus) nextID(kind jobKind) (int64, string) {
	idx := atomic.AddInt64(&b.counter, 1)
	return idx, fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	seq, id := b.nextID(kind)
	started := time.Now()
	logger := observability.WithJob(b.log, seq, string(kind))
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		logger.Debug().Msg("job started")
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		ctx := context.Background()
		if b.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		payload, err := runner(ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		logger.Info().Str("status", string(snapshot.Status)).Dur("duration", snapshot.Duration).Err(err).Msg("job finished")
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}
