package findingstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"seed_checker/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultDirectory = "found_wallets"

// FileSink writes one JSON file per finding.
type FileSink struct {
	dir    string
	seq    atomic.Uint64
	logger *zap.Logger
}

// NewFileSink creates the directory if needed.
func NewFileSink(dir string, logger *zap.Logger) (*FileSink, error) {
	if dir == "" {
		dir = defaultDirectory
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create findings directory %s: %w", dir, err)
	}
	return &FileSink{dir: dir, logger: logger.Named("FindingFileSink")}, nil
}

// Save implements port.FindingSink. Files are named found_wallets_<YYYYMMDD_HHMMSS>_<n>.json.
func (s *FileSink) Save(_ context.Context, f entity.WalletFinding) error {
	data, err := json.MarshalIndent(NewRecord(f), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal finding: %w", err)
	}

	name := fmt.Sprintf("found_wallets_%s_%d.json", f.Timestamp.UTC().Format("20060102_150405"), s.seq.Add(1))
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".finding-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", s.dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write finding: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close finding file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move finding to %s: %w", path, err)
	}

	s.logger.Info("Finding saved", zap.String("path", path), zap.Int("chains", len(f.Wallets)))
	return nil
}

// Dir returns the output directory.
func (s *FileSink) Dir() string { return s.dir }
