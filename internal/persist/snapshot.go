package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cavern/cavern/internal/core/ecs"
)

// Snapshot is one sample of world statistics taken at a tick boundary.
type Snapshot struct {
	RunID   uuid.UUID
	Tick    uint64
	Room    string
	Stats   ecs.Stats
	TakenAt time.Time
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save writes a snapshot and its per-component counts in one transaction.
func (r *SnapshotRepo) Save(ctx context.Context, s Snapshot) error {
	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO world_snapshots (run_id, tick, room, entities, id_space, pending, taken_at)
			 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			s.RunID.String(), int64(s.Tick), s.Room,
			s.Stats.Entities, s.Stats.IDSpace, s.Stats.Pending, s.TakenAt,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		batch := &pgx.Batch{}
		for _, c := range s.Stats.Components {
			batch.Queue(
				`INSERT INTO snapshot_components (snapshot_id, component, count) VALUES ($1, $2, $3)`,
				id, c.Type, c.Count,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("components: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Prune deletes all but the newest keep snapshots of a run.
func (r *SnapshotRepo) Prune(ctx context.Context, runID uuid.UUID, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM world_snapshots WHERE run_id = $1::uuid AND id NOT IN (
			SELECT id FROM world_snapshots WHERE run_id = $1::uuid ORDER BY tick DESC LIMIT $2)`,
		runID.String(), keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
