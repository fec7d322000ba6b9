// Package report runs the one-shot fetch of the income statement and
// exposes its outcome as a three-state snapshot.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/statement-glance/internal/models"
	"github.com/rs/zerolog"
)

// ErrorMessage is shown for every fetch failure. The cause is only logged.
const ErrorMessage = "Error fetching data. Please try again later."

const defaultArchiveTimeout = 30 * time.Second

// Status is the state of the fetch.
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Snapshot is the fetch outcome at a point in time.
// Records is shared between readers and must not be modified.
type Snapshot struct {
	Status    Status
	Records   []models.IncomeStatement
	Message   string
	FetchedAt time.Time
}

// Fetcher reads the full record set.
type Fetcher interface {
	FetchIncomeStatement(ctx context.Context) ([]models.IncomeStatement, error)
}

// Archiver keeps a copy of fetched records. It is never read back by the view.
type Archiver interface {
	ArchiveStatements(ctx context.Context, records []models.IncomeStatement) (int, error)
}

// Loader performs a single fetch and publishes the result once.
type Loader struct {
	fetcher        Fetcher
	archiver       Archiver
	archiveTimeout time.Duration
	logger         zerolog.Logger
	now            func() time.Time

	once sync.Once
	done chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

// Option configures a Loader.
type Option func(*Loader)

// WithArchiver hands successful results to a.
func WithArchiver(a Archiver) Option {
	return func(l *Loader) {
		l.archiver = a
	}
}

// WithArchiveTimeout bounds how long a single archive call may take.
func WithArchiveTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.archiveTimeout = d
	}
}

// NewLoader creates a loader in the loading state. Nothing is fetched until Start.
func NewLoader(fetcher Fetcher, logger zerolog.Logger, opts ...Option) *Loader {
	l := &Loader{
		fetcher:        fetcher,
		archiveTimeout: defaultArchiveTimeout,
		logger:         logger,
		now:            time.Now,
		done:           make(chan struct{}),
		snap:           Snapshot{Status: StatusLoading},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches the fetch in the background. Only the first call has an effect.
// Cancelling ctx abandons the fetch and ends in the error state.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Done is closed once the fetch outcome is published, successfully or not.
// Archiving continues in the background after that.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the fetch finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-l.done:
		return l.Snapshot(), nil
	case <-ctx.Done():
		return l.Snapshot(), ctx.Err()
	}
}

func (l *Loader) run(ctx context.Context) {
	start := l.now()
	records, err := l.fetcher.FetchIncomeStatement(ctx)
	if err != nil {
		l.logger.Error().Err(err).Msg("fetching income statement")
		l.publish(Snapshot{Status: StatusError, Message: ErrorMessage})
		return
	}

	l.logger.Info().
		Int("records", len(records)).
		Dur("elapsed", l.now().Sub(start)).
		Msg("income statement loaded")

	l.publish(Snapshot{Status: StatusSuccess, Records: records, FetchedAt: l.now()})

	if l.archiver != nil {
		l.archive(ctx, records)
	}
}

func (l *Loader) archive(ctx context.Context, records []models.IncomeStatement) {
	ctx, cancel := context.WithTimeout(ctx, l.archiveTimeout)
	defer cancel()

	count, err := l.archiver.ArchiveStatements(ctx, records)
	if err != nil {
		l.logger.Warn().Err(err).Msg("archiving income statement")
		return
	}
	l.logger.Info().Int("rows", count).Msg("income statement archived")
}

// publish stores the outcome and releases waiters. It runs once per loader.
func (l *Loader) publish(s Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.mu.Unlock()
	close(l.done)
}
