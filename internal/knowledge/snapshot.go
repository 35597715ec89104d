package knowledge

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// SnapshotVersion is bumped whenever the serialized layout changes. A
// snapshot written by a different version is rejected at load time rather
// than reinterpreted.
const SnapshotVersion = 1

var (
	// ErrSnapshotVersion indicates a snapshot written by an incompatible
	// layout version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrSnapshotCorrupt indicates a snapshot whose index and document
	// store are not aligned row-for-row.
	ErrSnapshotCorrupt = errors.New("corrupt snapshot")
)

// snapshot is the durable unit: index contents and document store contents
// serialized together so neither can be loaded without its pair.
type snapshot struct {
	Version   int
	Dimension int
	Vectors   [][]float32
	Chunks    []Chunk
}

// SaveSnapshot writes the index and document store to path as one atomic
// unit: the snapshot is encoded to a temp file in the same directory and
// renamed into place. A file lock (path + ".lock") is held for the duration
// so a concurrently starting server never observes a half-written file.
func SaveSnapshot(path string, ix *VectorIndex, docs *DocumentStore) (err error) {
	if ix.Len() != docs.Len() {
		return fmt.Errorf("%w: index has %d rows, store has %d chunks",
			ErrSnapshotCorrupt, ix.Len(), docs.Len())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking snapshot: %w", err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlocking snapshot: %w", unlockErr)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	snap := snapshot{
		Version:   SnapshotVersion,
		Dimension: ix.Dimension(),
		Vectors:   ix.vectors,
		Chunks:    docs.chunks,
	}
	if err = gob.NewEncoder(tmp).Encode(snap); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot and reconstructs the
// index and document store. Any failure here is fatal for the serving
// process: a missing file, a version mismatch, or misaligned contents all
// mean there is nothing valid to serve from.
func LoadSnapshot(path string) (_ *VectorIndex, _ *DocumentStore, err error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, nil, fmt.Errorf("locking snapshot: %w", err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlocking snapshot: %w", unlockErr)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	if len(snap.Vectors) != len(snap.Chunks) {
		return nil, nil, fmt.Errorf("%w: %d vectors, %d chunks",
			ErrSnapshotCorrupt, len(snap.Vectors), len(snap.Chunks))
	}

	ix, err := NewVectorIndex(snap.Dimension)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if err := ix.Add(snap.Vectors); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	docs := NewDocumentStore()
	docs.Append(snap.Chunks...)
	return ix, docs, nil
}
