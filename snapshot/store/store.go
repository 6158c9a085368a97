// Package store persists snapshot records. The core never blocks on I/O:
// saving and loading snapshots happens outside the tick loop, so these
// methods take a context and may touch the network.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/snapshot"
)

var ErrSnapshotNotFound = eris.New("snapshot not found")

// Store is a keyed archive of snapshot records.
type Store interface {
	Save(ctx context.Context, rec *snapshot.Record) error
	Load(ctx context.Context, id string) (*snapshot.Record, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
