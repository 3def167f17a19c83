package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pathwise/pathwise/ent"
	entsnapshot "github.com/pathwise/pathwise/ent/snapshot"
	"github.com/pathwise/pathwise/internal/snapshot"
)

// snapshotRepo implements SnapshotRepo using the ent client.
type snapshotRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, rec *SnapshotRecord) error {
	dataMap, err := snapshotToMap(rec.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	// Snapshots share the global sequence with the event tables, so a
	// snapshot's position relative to every event is well defined.
	if rec.Sequence == 0 {
		rec.Sequence, err = r.seq.Next(ctx)
		if err != nil {
			return err
		}
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err = r.client.Snapshot.Create().
		SetSequence(rec.Sequence).
		SetTimestamp(rec.Timestamp).
		SetData(dataMap).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*SnapshotRecord, error) {
	s, err := r.client.Snapshot.Query().
		Order(ent.Desc(entsnapshot.FieldTimestamp)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return entSnapshotToRecord(s)
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the timestamp threshold: the Nth most recent snapshot.
	snapshots, err := r.client.Snapshot.Query().
		Order(ent.Desc(entsnapshot.FieldTimestamp)).
		Offset(keep).
		Limit(1).
		All(ctx)
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(snapshots) == 0 {
		return nil // fewer than keep snapshots exist
	}

	threshold := snapshots[0].Timestamp
	_, err = r.client.Snapshot.Delete().
		Where(entsnapshot.TimestampLTE(threshold)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// snapshotToMap converts a session snapshot to map[string]any for ent
// JSON storage.
func snapshotToMap(data snapshot.Snapshot) (map[string]any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// entSnapshotToRecord converts an ent Snapshot row to a SnapshotRecord.
func entSnapshotToRecord(s *ent.Snapshot) (*SnapshotRecord, error) {
	b, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal ent data: %w", err)
	}
	var data snapshot.Snapshot
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &SnapshotRecord{
		ID:        s.ID,
		Sequence:  s.Sequence,
		Timestamp: s.Timestamp,
		Data:      data,
	}, nil
}
