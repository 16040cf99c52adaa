package gen

import (
	"log/slog"

	"github.com/nordwg/nordgen/pkg/geo"
	"github.com/nordwg/nordgen/pkg/prefs"
	"github.com/nordwg/nordgen/pkg/server"
)

// Options configures one generation run.
type Options struct {
	OutputDir        string
	WriteConcurrency int

	// OnStart is invoked once the pipeline knows how many files the run
	// will write, before the first write happens.
	OnStart func(totalConfigs, bestConfigs int)

	// OnWrite is invoked after every attempted file write (both batches).
	OnWrite func()
}

// Result is the outcome of one generation run.
type Result struct {
	OutputDir string
	Stats     Stats
	Best      []server.Server
	All       []server.Server
}

// Generate runs the full core pipeline over fetched data: pre-filter,
// metadata-driven classification, parallel parse, dedup, deterministic
// (load, distance) sort, best-per-group selection, and the throttled
// write of both config batches plus servers.json.
func Generate(records []server.RawServer, user geo.Coordinates, privateKey string, p prefs.Preferences, opts Options) (*Result, error) {
	p = p.Normalized()
	log := slog.With("component", "pipeline")

	// Narrow raw records before parse work is spent on them, then derive
	// metadata from the narrowed set so the type priority reflects what
	// is actually on the table.
	filtered := server.FilterRecords(records, server.NewFilter(p))
	md := server.BuildMetadata(filtered)

	parser := server.NewParser(user, p, md.TypePriority)
	parsed, rejected := parser.ParseAll(filtered)
	rejected += len(records) - len(filtered)

	deduped := server.Dedupe(parsed)
	duplicates := len(parsed) - len(deduped)
	server.SortByLoadDistance(deduped)
	best := server.BestByGroup(deduped)

	log.Info("dataset processed",
		"records", len(records),
		"servers", len(deduped),
		"best", len(best),
		"rejected", rejected,
		"duplicates", duplicates)

	if opts.OnStart != nil {
		opts.OnStart(len(deduped), len(best))
	}

	w := NewWriter(opts.OutputDir, privateKey, p, opts.WriteConcurrency)
	w.OnWrite = opts.OnWrite
	stats, err := w.Commit(deduped, best)
	if err != nil {
		return nil, err
	}
	stats.RejectedCount = rejected
	stats.Duplicates = duplicates

	return &Result{
		OutputDir: w.Root(),
		Stats:     stats,
		Best:      best,
		All:       deduped,
	}, nil
}
