// Package database keeps a dataset source polled and mirrors fresh
// analyses into the configured stores.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fraudnet/internal/database/graph"
	"fraudnet/internal/dataset"
)

const (
	defaultPollInterval = 20 * time.Second
	defaultLoadTimeout  = 30 * time.Second
	mirrorTimeout       = 30 * time.Second
)

// AnalysisStore persists the latest analysis, e.g. relational.Repo.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, a *dataset.Analysis) error
}

// Update is published whenever a load yields a new analysis or fails.
type Update struct {
	Source      string
	Analysis    *dataset.Analysis
	Fingerprint string
	LoadedAt    time.Time
	Err         error
}

type Option func(*Refresher)

func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLoadTimeout(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) { r.log = l }
}

// WithStore persists every changed analysis synchronously.
func WithStore(s AnalysisStore) Option {
	return func(r *Refresher) { r.store = s }
}

// WithGraphMirror replaces the graph contents with every changed analysis
// in the background.
func WithGraphMirror(g graph.GraphClient) Option {
	return func(r *Refresher) { r.mirror = g }
}

// Refresher polls a source and publishes analyses whose fingerprint
// changed since the previous load.
type Refresher struct {
	source   dataset.Source
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
	store    AnalysisStore
	mirror   graph.GraphClient
	updates  chan Update

	mu      sync.Mutex
	last    string
	loaded  bool
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

func NewRefresher(src dataset.Source, opts ...Option) (*Refresher, error) {
	if src == nil {
		return nil, errors.New("source is required")
	}
	r := &Refresher{
		source:   src,
		interval: defaultPollInterval,
		timeout:  defaultLoadTimeout,
		log:      slog.Default(),
		updates:  make(chan Update, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Updates delivers the newest unread update. Older unread updates are
// replaced, never queued.
func (r *Refresher) Updates() <-chan Update {
	return r.updates
}

// Start begins the polling loop. The first load happens immediately.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("refresher already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.loop(ctx)
	return nil
}

// Stop cancels the loop and waits for in-flight loads and mirrors.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.running = false
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// PullOnce loads the source now. It reports whether a new analysis was
// published.
func (r *Refresher) PullOnce(ctx context.Context) (bool, error) {
	return r.execute(ctx)
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.execute(ctx); err != nil && ctx.Err() == nil {
			r.log.Warn("refresh failed", "source", r.source.Name(), "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Refresher) execute(ctx context.Context) (bool, error) {
	loadCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	a, err := r.source.Load(loadCtx)
	if err != nil {
		err = fmt.Errorf("load %s: %w", r.source.Name(), err)
		r.publish(Update{Source: r.source.Name(), LoadedAt: time.Now(), Err: err})
		return false, err
	}

	fp := dataset.Fingerprint(a)
	r.mu.Lock()
	unchanged := r.loaded && fp == r.last
	r.mu.Unlock()
	if unchanged {
		r.log.Debug("analysis unchanged", "source", r.source.Name())
		return false, nil
	}

	// The fingerprint is committed only once the store has the analysis,
	// so a failed save is retried on the next load.
	if r.store != nil {
		if err := r.store.SaveAnalysis(ctx, a); err != nil {
			err = fmt.Errorf("persist analysis: %w", err)
			r.publish(Update{Source: r.source.Name(), LoadedAt: time.Now(), Err: err})
			return false, err
		}
	}

	r.mu.Lock()
	r.last, r.loaded = fp, true
	r.mu.Unlock()
	if r.mirror != nil {
		r.wg.Add(1)
		go r.pushToGraph(a)
	}

	r.publish(Update{Source: r.source.Name(), Analysis: a, Fingerprint: fp, LoadedAt: time.Now()})
	r.log.Info("analysis published", "source", r.source.Name(), "fingerprint", short(fp))
	return true, nil
}

// pushToGraph uses a detached context so a stop mid-push still finishes
// or times out cleanly.
func (r *Refresher) pushToGraph(a *dataset.Analysis) {
	defer r.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	if err := r.mirror.Reset(ctx); err != nil {
		r.log.Warn("graph reset failed", "err", err)
		return
	}
	if err := r.mirror.IngestAnalysis(ctx, a); err != nil {
		r.log.Warn("graph ingest failed", "err", err)
	}
}

func (r *Refresher) publish(u Update) {
	for {
		select {
		case r.updates <- u:
			return
		default:
		}
		select {
		case <-r.updates:
		default:
		}
	}
}

func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
