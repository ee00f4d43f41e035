package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	utimes "utimes-go"
	"utimes-go/internal/config"
	"utimes-go/internal/journal"
	"utimes-go/internal/platform"
	"utimes-go/internal/reference"
	"utimes-go/internal/stamp"
)

// Backend is a timestamp backend that can also read timestamps back.
type Backend interface {
	stamp.Backend
	stamp.Inspector
}

// Deps are the collaborators of a UtimesApp. Nil fields get defaults, except
// Journal: a nil journal disables history and undo.
type Deps struct {
	Backend       Backend
	Resolver      reference.Resolver
	Journal       journal.Journal
	Clock         stamp.Clock
	IDs           stamp.IDGenerator
	Logger        stamp.Logger
	MaxConcurrent int64
}

// ErrNoJournal is returned by History and Undo when journaling is disabled.
var ErrNoJournal = errors.New("journal is disabled (journal.type = \"none\")")

// UtimesApp is the application layer between the CLI and the timestamp
// client. It owns the journal and log file and releases them on Close.
type UtimesApp struct {
	client     *utimes.Client
	backend    Backend
	resolver   reference.Resolver
	journal    journal.Journal
	normalizer *stamp.Normalizer
	clock      stamp.Clock
	ids        stamp.IDGenerator
	logger     stamp.Logger
	logFile    *os.File
}

// New creates a UtimesApp from explicit collaborators.
func New(deps Deps) *UtimesApp {
	if deps.Backend == nil {
		deps.Backend = platform.New()
	}
	if deps.Clock == nil {
		deps.Clock = stamp.RealClock{}
	}
	if deps.IDs == nil {
		deps.IDs = stamp.UUIDGenerator{}
	}
	if deps.Logger == nil {
		deps.Logger = stamp.NewNopLogger()
	}
	normalizer := stamp.NewNormalizer(deps.Clock)
	if deps.Resolver == nil {
		deps.Resolver = reference.NewResolverFromConfig(config.ReferenceConfig{}, deps.Backend, normalizer)
	}

	opts := []utimes.Option{
		utimes.WithBackend(deps.Backend),
		utimes.WithClock(deps.Clock),
		utimes.WithLogger(deps.Logger),
	}
	if deps.MaxConcurrent > 0 {
		opts = append(opts, utimes.WithMaxConcurrent(deps.MaxConcurrent))
	}

	return &UtimesApp{
		client:     utimes.New(opts...),
		backend:    deps.Backend,
		resolver:   deps.Resolver,
		journal:    deps.Journal,
		normalizer: normalizer,
		clock:      deps.Clock,
		ids:        deps.IDs,
		logger:     deps.Logger,
	}
}

// NewUtimesApp creates a fully wired UtimesApp from cfg. command names the
// CLI command being run. The caller must call Close when done.
func NewUtimesApp(cfg *config.Config, command string, stderr io.Writer) (*UtimesApp, error) {
	ids := stamp.UUIDGenerator{}
	runID := ids.New()

	logger, logFile, err := newLogger(cfg.LogDir, runID, cfg.Verbose, stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	j, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	backend := platform.New()
	clock := stamp.RealClock{}
	a := New(Deps{
		Backend:       backend,
		Resolver:      reference.NewResolverFromConfig(cfg.Reference, backend, stamp.NewNormalizer(clock)),
		Journal:       j,
		Clock:         clock,
		IDs:           ids,
		Logger:        &slogAdapter{l: logger},
		MaxConcurrent: cfg.Client.MaxConcurrent,
	})
	a.logFile = logFile
	a.logger.Debug("starting", "command", command, "journal", cfg.Journal.Type)
	return a, nil
}

// Client returns the timestamp client.
func (a *UtimesApp) Client() *utimes.Client {
	return a.client
}

// Support returns what the native backend can write.
func (a *UtimesApp) Support() stamp.Support {
	return a.backend.Support()
}

// Close releases the journal and the log file.
func (a *UtimesApp) Close() error {
	var firstErr error
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			firstErr = fmt.Errorf("closing journal: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
