package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/posting-planner/internal/config"
	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/db"
	"github.com/posting-planner/internal/source"
)

// LoadDataset reads every configured source into the base dataset. The
// Postgres connection is only opened when a table source is enabled and is
// closed before returning.
func LoadDataset(ctx context.Context, cfg *config.AppConfig) (*dataset.Dataset, *dataset.LoadReport, error) {
	loader := source.NewLoader(cfg.Columns, cfg.Debug)

	if cfg.Postgres.Enabled {
		conn, err := db.NewConnection(ctx, cfg.Postgres.URL)
		if err != nil {
			if cfg.Postgres.Mandatory {
				return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
			}
			log.Printf("Postgres source disabled: %v", err)
		} else {
			defer conn.Close()
			loader.Postgres = source.NewPostgresReader(conn.DB)
		}
	}

	return loader.Load(ctx, cfg.AllSources())
}

// LoadOrEmpty is LoadDataset with the empty-start fallback: when a mandatory
// source fails and allowEmpty is set, it logs the error and returns an empty
// dataset with the canonical columns.
func LoadOrEmpty(ctx context.Context, cfg *config.AppConfig, allowEmpty bool) (*dataset.Dataset, *dataset.LoadReport, error) {
	ds, report, err := LoadDataset(ctx, cfg)
	if err == nil {
		return ds, report, nil
	}
	if !allowEmpty {
		return nil, report, err
	}

	log.Printf("Starting with an empty dataset: %v", err)
	if report == nil {
		report = &dataset.LoadReport{}
	}
	report.Warnings = append(report.Warnings, dataset.Warning{Source: "dataset", Reason: err.Error()})
	return dataset.Empty(), report, nil
}
