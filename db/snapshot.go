// ABOUTME: Snapshot loader feeding the triage engine
// ABOUTME: Reads contacts, companies, deals, interactions, and follow-ups in one read transaction
package db

import (
	"context"
	"fmt"

	"github.com/harperreed/voss/models"
)

// SnapshotLoader reads everything the triage engine needs.
type SnapshotLoader struct {
	uow UnitOfWork
}

func NewSnapshotLoader(uow UnitOfWork) *SnapshotLoader {
	return &SnapshotLoader{uow: uow}
}

// LoadSnapshot reads all five tables inside one transaction so the feed never
// mixes rows from before and after a concurrent write. Archived contacts are
// left out; rows that point at them are kept.
func (l *SnapshotLoader) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		var err error
		if snap.Contacts, err = NewContactRepository(tx).List(ctx, ContactFilter{}); err != nil {
			return fmt.Errorf("contacts: %w", err)
		}
		if snap.Companies, err = NewCompanyRepository(tx).List(ctx); err != nil {
			return fmt.Errorf("companies: %w", err)
		}
		if snap.Deals, err = NewDealRepository(tx).List(ctx, nil); err != nil {
			return fmt.Errorf("deals: %w", err)
		}
		if snap.Interactions, err = NewInteractionRepository(tx).List(ctx, InteractionFilter{}); err != nil {
			return fmt.Errorf("interactions: %w", err)
		}
		if snap.FollowUps, err = NewFollowUpRepository(tx).List(ctx, FollowUpFilter{}); err != nil {
			return fmt.Errorf("follow-ups: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return &snap, nil
}
