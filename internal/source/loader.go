package source

import (
	"context"
	"fmt"
	"log"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/debug"
)

// Source is one configured input: a file on disk or a Postgres table
type Source struct {
	Name      string `toml:"name"`
	Path      string `toml:"path"`
	Table     string `toml:"table"`
	Mandatory bool   `toml:"mandatory"`
}

// Loader reads configured sources into the canonical dataset
type Loader struct {
	Aliases  map[string]string
	Postgres *PostgresReader
	Debug    bool
}

// NewLoader creates a loader that renames headers using aliases
func NewLoader(aliases map[string]string, debugEnabled bool) *Loader {
	return &Loader{Aliases: aliases, Debug: debugEnabled}
}

// Load reads every source in order. An unreadable mandatory source aborts the
// load; an unreadable optional source is skipped with a warning.
func (l *Loader) Load(ctx context.Context, sources []Source) (*dataset.Dataset, *dataset.LoadReport, error) {
	defer debug.DebugSection(l.Debug, "LOAD SOURCES")()
	defer debug.DebugTiming(l.Debug, fmt.Sprintf("load %d sources", len(sources)))()

	var (
		tables   []*dataset.Table
		warnings []dataset.Warning
	)
	for _, src := range sources {
		t, err := l.read(ctx, src)
		if err != nil {
			if src.Mandatory {
				return nil, &dataset.LoadReport{Warnings: warnings}, err
			}
			log.Printf("Skipping optional source %s: %v", src.label(), err)
			warnings = append(warnings, dataset.Warning{Source: src.label(), Reason: err.Error()})
			continue
		}
		t.Mandatory = src.Mandatory
		if src.Name != "" {
			t.Name = src.Name
		}
		debug.DebugOutput(l.Debug, "read %s: %d rows", t.Name, len(t.Rows))
		tables = append(tables, t)
	}

	ds, report, err := dataset.Load(tables...)
	if report != nil {
		report.Warnings = append(warnings, report.Warnings...)
	}
	if err != nil {
		return nil, report, err
	}
	log.Printf("Loaded %d rows from %d sources (%d skipped)", report.Rows, len(report.Sources), len(report.Warnings))
	return ds, report, nil
}

func (l *Loader) read(ctx context.Context, src Source) (*dataset.Table, error) {
	if src.Table != "" {
		if l.Postgres == nil {
			return nil, dataset.NewLoadError(src.label(), "no database configured", nil)
		}
		t, err := l.Postgres.ReadTable(ctx, src.Table)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return ReadFile(src.Path, l.Aliases)
}

func (s Source) label() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Table != "":
		return "postgres:" + s.Table
	default:
		return s.Path
	}
}
