// Package checkpoint persists partial translation progress so an
// interrupted run resumes where it stopped instead of re-translating rows.
package checkpoint

import (
	"fmt"
	"os"

	"github.com/oukeidos/batrans/internal/dataset"
	"github.com/oukeidos/batrans/internal/files"
	"github.com/oukeidos/batrans/internal/logger"
)

// Store loads the working dataset, preferring an existing checkpoint over
// the original source, and snapshots progress back to the checkpoint path.
type Store struct {
	SourcePath     string
	CheckpointPath string
}

func NewStore(sourcePath, checkpointPath string) *Store {
	return &Store{SourcePath: sourcePath, CheckpointPath: checkpointPath}
}

// Load returns the dataset to work on. When the checkpoint file exists the
// run resumes from it; otherwise a fresh dataset is read from the source.
func (s *Store) Load() (*dataset.Dataset, error) {
	if _, err := os.Stat(s.CheckpointPath); err == nil {
		logger.Info("Resuming from checkpoint", "path", s.CheckpointPath)
		return dataset.Load(s.CheckpointPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking checkpoint %s: %w", s.CheckpointPath, err)
	}
	logger.Info("Starting new translation job", "path", s.SourcePath)
	return dataset.Load(s.SourcePath)
}

// Save writes the current dataset to the checkpoint path atomically, so a
// crash mid-write never leaves a truncated checkpoint behind.
func (s *Store) Save(ds *dataset.Dataset) error {
	data, err := ds.Bytes()
	if err != nil {
		return fmt.Errorf("serializing checkpoint: %w", err)
	}
	if err := files.AtomicWrite(s.CheckpointPath, data, 0o644); err != nil {
		return fmt.Errorf("writing checkpoint %s: %w", s.CheckpointPath, err)
	}
	return nil
}

// Remove deletes the checkpoint file once a run completes. A missing file
// is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.CheckpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing checkpoint %s: %w", s.CheckpointPath, err)
	}
	return nil
}
