package bulkupdate

import (
	"context"
	"fmt"

	"storebridge/internal/core/id"
	"storebridge/internal/core/tx"
	"storebridge/internal/domain/catalog/item"
	"storebridge/pkg/logger"
)

// AuditSink records processed batches for traceability. Implementations must
// tolerate being called after the data writes; audit failures are logged and
// never fail the batch.
type AuditSink interface {
	RecordBatch(ctx context.Context, outletID id.ID, channel item.Channel, result BatchResult) error
}

// Runner loads the snapshots a batch needs, runs the pipeline and persists
// the outcome.
type Runner struct {
	svc   *Service
	items item.Repository
	links item.ItemOutletRepository
	txm   tx.Manager
	audit AuditSink
}

// NewRunner creates a runner. txm and audit may be nil.
func NewRunner(svc *Service, items item.Repository, links item.ItemOutletRepository, txm tx.Manager, audit AuditSink) *Runner {
	return &Runner{svc: svc, items: items, links: links, txm: txm, audit: audit}
}

// Run executes one bulk update against one outlet.
func (r *Runner) Run(ctx context.Context, channel item.Channel, outletID id.ID, rows []Row) (BatchResult, error) {
	// Load whole code families, not just the addressed keys: a parent row
	// needs its children in the working set for the cascade.
	codes := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.ItemCode] {
			seen[row.ItemCode] = true
			codes = append(codes, row.ItemCode)
		}
	}

	items, err := r.items.ListByCodes(ctx, channel, codes)
	if err != nil {
		return BatchResult{}, fmt.Errorf("load items: %w", err)
	}

	itemIDs := make([]id.ID, len(items))
	for i, it := range items {
		itemIDs[i] = it.ID
	}
	instances, err := r.links.ListByOutlet(ctx, outletID, itemIDs)
	if err != nil {
		return BatchResult{}, fmt.Errorf("load outlet instances: %w", err)
	}
	instanceByItem := make(map[id.ID]item.ItemOutlet, len(instances))
	for _, io := range instances {
		instanceByItem[io.ItemID] = io
	}

	result := r.svc.Process(ctx, Batch{
		Channel:   channel,
		OutletID:  outletID,
		Rows:      rows,
		Items:     items,
		Instances: instanceByItem,
	})

	if err := r.persist(ctx, result); err != nil {
		return BatchResult{}, err
	}

	if r.audit != nil {
		if err := r.audit.RecordBatch(ctx, outletID, channel, result); err != nil {
			logger.Error(ctx, "record bulk update audit", "error", err)
		}
	}

	return result, nil
}

// persist writes the batch outcome in one transaction: creates, updates and
// margin overrides land together or not at all.
func (r *Runner) persist(ctx context.Context, result BatchResult) error {
	if r.txm != nil {
		return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return r.persistWrites(ctx, result)
		})
	}
	return r.persistWrites(ctx, result)
}

func (r *Runner) persistWrites(ctx context.Context, result BatchResult) error {
	var updates []*item.ItemOutlet
	for i := range result.Updates {
		io := &result.Updates[i]
		if result.Created[io.ItemID] {
			if err := r.links.Create(ctx, io); err != nil {
				return fmt.Errorf("create outlet instance: %w", err)
			}
			continue
		}
		updates = append(updates, io)
	}
	if len(updates) > 0 {
		if err := r.links.UpdateBatch(ctx, updates); err != nil {
			return fmt.Errorf("persist updates: %w", err)
		}
	}

	if len(result.MarginUpdates) > 0 {
		assignments := make(map[id.ID]string, len(result.MarginUpdates))
		for _, it := range result.MarginUpdates {
			if it.CustomMarginPercent.Valid {
				assignments[it.ID] = it.CustomMarginPercent.Decimal.String()
			}
		}
		if err := r.items.UpdateCustomMargins(ctx, assignments); err != nil {
			return fmt.Errorf("persist margin overrides: %w", err)
		}
	}
	return nil
}
