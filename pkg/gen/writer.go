// Package gen renders WireGuard configuration files and writes them to a
// per-run output directory tree.
package gen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nordwg/nordgen/pkg/prefs"
	"github.com/nordwg/nordgen/pkg/server"
)

const defaultWriteConcurrency = 200

// Writer persists rendered configs under a timestamped output directory.
// Paths are resolved up front by a single-owner PathRegistry; only the
// pure write-to-disk step runs concurrently, throttled by a semaphore so
// file descriptors are not exhausted.
type Writer struct {
	root        string
	key         string
	prefs       prefs.Preferences
	concurrency int
	log         *slog.Logger

	dirCache sync.Map // created directories, avoids redundant MkdirAll
	failures atomic.Int64

	// OnWrite, when set, is called after every attempted file write.
	// The TUI uses it to drive its progress bar.
	OnWrite func()
}

// NewWriter creates a writer rooted at dir. An empty dir gets the
// conventional nordvpn_configs_{timestamp} name in the working directory.
func NewWriter(dir, privateKey string, p prefs.Preferences, concurrency int) *Writer {
	if dir == "" {
		dir = fmt.Sprintf("nordvpn_configs_%s", time.Now().Format("20060102_150405"))
	}
	if concurrency <= 0 {
		concurrency = defaultWriteConcurrency
	}
	return &Writer{
		root:        dir,
		key:         privateKey,
		prefs:       p.Normalized(),
		concurrency: concurrency,
		log:         slog.With("component", "writer"),
	}
}

// Root returns the output directory of this run.
func (w *Writer) Root() string { return w.root }

// Failures returns the number of failed file writes so far.
func (w *Writer) Failures() int { return int(w.failures.Load()) }

// resolved pairs a server with its pre-computed relative path.
type resolved struct {
	srv server.Server
	rel string
}

// Commit writes the full config set and the best-per-group set, then the
// servers.json summary. Paths for both batches come from one registry,
// resolved sequentially in the deterministic sorted order before any
// write goroutine starts. Per-file failures are counted, not fatal.
func (w *Writer) Commit(all, best []server.Server) (Stats, error) {
	if err := w.ensureDir(w.root); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	reg := NewPathRegistry()
	allJobs := resolveBatch(reg, all, SubfolderAll)
	bestJobs := resolveBatch(reg, best, SubfolderBest)

	var g errgroup.Group
	g.Go(func() error {
		w.writeBatch(allJobs)
		return nil
	})
	g.Go(func() error {
		w.writeBatch(bestJobs)
		return nil
	})
	// Write goroutines absorb their own errors into the failure count.
	_ = g.Wait()

	if err := w.writeSummary(all); err != nil {
		return Stats{}, err
	}

	stats := NewStats()
	stats.TotalConfigs = len(all)
	stats.BestConfigs = len(best)
	stats.WriteFailures = w.Failures()
	return stats, nil
}

func resolveBatch(reg *PathRegistry, servers []server.Server, subfolder string) []resolved {
	jobs := make([]resolved, 0, len(servers))
	for i := range servers {
		jobs = append(jobs, resolved{
			srv: servers[i],
			rel: reg.Resolve(&servers[i], subfolder),
		})
	}
	return jobs
}

func (w *Writer) writeBatch(jobs []resolved) {
	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(job *resolved) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := w.writeOne(job); err != nil {
				w.failures.Add(1)
				w.log.Warn("config write failed", "path", job.rel, "err", err)
			}
			if w.OnWrite != nil {
				w.OnWrite()
			}
		}(&jobs[i])
	}
	wg.Wait()
}

func (w *Writer) writeOne(job *resolved) error {
	full := filepath.Join(w.root, filepath.FromSlash(job.rel))
	if err := w.ensureDir(filepath.Dir(full)); err != nil {
		return err
	}
	cfg := RenderConfig(w.key, &job.srv, w.prefs)
	return os.WriteFile(full, []byte(cfg), 0o600)
}

// ensureDir creates a directory idempotently, caching successes so
// concurrent writers do not hammer MkdirAll for the same tree.
func (w *Writer) ensureDir(dir string) error {
	if _, ok := w.dirCache.Load(dir); ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	w.dirCache.Store(dir, true)
	return nil
}
