package core

import (
	"context"
	"path/filepath"

	"github.com/saturnines/catalog-export/pkg/catalog"
	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/ctxlog"
	"github.com/saturnines/catalog-export/pkg/export"
	"github.com/saturnines/catalog-export/pkg/snapshot"
	"github.com/saturnines/catalog-export/pkg/transform"
)

// PartitionReport summarizes one status partition of a run.
type PartitionReport struct {
	Status       string
	Products     int
	Pages        int
	Complete     bool
	Err          error
	SnapshotPath string
}

// Report summarizes an export run. Complete is false when any partition
// was truncated.
type Report struct {
	Partitions []PartitionReport
	Rows       int
	TablePath  string
	Complete   bool
}

// Exporter fetches every configured status partition, snapshots it, and
// writes the flattened table.
type Exporter struct {
	cfg     *config.Export
	fetcher Fetcher
	store   *snapshot.Store
	table   *export.TableWriter
}

// NewExporter wires an Exporter. fetcher may be nil for RunFromSnapshots.
func NewExporter(cfg *config.Export, fetcher Fetcher) *Exporter {
	table := cfg.Output.Table
	if !filepath.IsAbs(table) {
		table = filepath.Join(cfg.Output.Dir, table)
	}
	return &Exporter{
		cfg:     cfg,
		fetcher: fetcher,
		store:   snapshot.NewStore(cfg.Output.Dir, cfg.Output.SnapshotPattern),
		table:   export.NewTableWriter(table, cfg.Output.Delimiter),
	}
}

// Run fetches and snapshots each status in order, then flattens the
// snapshots as stored on disk into the table.
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	log := ctxlog.FromContext(ctx).With("export", e.cfg.Name)
	report := &Report{Complete: true}

	for _, status := range e.cfg.Query.Statuses {
		log.Info("fetching products", "status", status)

		res, err := e.fetcher.Fetch(ctx, status)
		if err != nil {
			return nil, err
		}

		path, err := e.store.Save(status, res.Products)
		if err != nil {
			return nil, err
		}
		log.Info("saved snapshot", "status", status, "products", len(res.Products), "path", path)

		if !res.Complete {
			report.Complete = false
			log.Warn("partition is incomplete", "status", status, "pages", res.Pages, "error", res.Err)
		}
		report.Partitions = append(report.Partitions, PartitionReport{
			Status:       status,
			Products:     len(res.Products),
			Pages:        res.Pages,
			Complete:     res.Complete,
			Err:          res.Err,
			SnapshotPath: path,
		})
	}

	if err := e.writeTable(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// RunFromSnapshots rebuilds the table from existing snapshots without
// querying the API.
func (e *Exporter) RunFromSnapshots(ctx context.Context) (*Report, error) {
	report := &Report{Complete: true}
	for _, status := range e.cfg.Query.Statuses {
		report.Partitions = append(report.Partitions, PartitionReport{
			Status:       status,
			Complete:     true,
			SnapshotPath: e.store.Path(status),
		})
	}

	if err := e.writeTable(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (e *Exporter) writeTable(ctx context.Context, report *Report) error {
	log := ctxlog.FromContext(ctx).With("export", e.cfg.Name)

	collections := make([][]catalog.Product, 0, len(report.Partitions))
	for i := range report.Partitions {
		p := &report.Partitions[i]
		products, err := e.store.Load(p.Status)
		if err != nil {
			return err
		}
		p.Products = len(products)
		collections = append(collections, products)
	}

	rows := transform.Flatten(collections...)
	if err := e.table.Write(rows); err != nil {
		return err
	}
	report.Rows = len(rows)
	report.TablePath = e.table.Path()

	log.Info("wrote table", "rows", report.Rows, "path", report.TablePath)
	return nil
}
