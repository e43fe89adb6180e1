package wordlist

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
)

// FileSource loads a wordlist from a text file with one word per line.
type FileSource struct {
	filePath string
	logger   *zap.Logger
}

// NewFileSource creates a new FileSource.
func NewFileSource(filePath string, logger *zap.Logger) port.WordlistSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{filePath: filePath, logger: logger.Named("WordlistFileSource")}
}

// Load reads and validates the file.
func (s *FileSource) Load(ctx context.Context) (*entity.Wordlist, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open wordlist file %s: %v", entity.ErrSourceUnavailable, s.filePath, err)
	}
	defer file.Close()

	words, err := parseWords(file)
	if err != nil {
		return nil, fmt.Errorf("%w: error scanning wordlist file %s: %v", entity.ErrSourceUnavailable, s.filePath, err)
	}

	wl, err := entity.NewWordlist(words)
	if err != nil {
		return nil, fmt.Errorf("wordlist file %s: %w", s.filePath, err)
	}
	s.logger.Info("Wordlist loaded successfully from file", zap.String("path", s.filePath), zap.Int("count", wl.Len()))
	return wl, nil
}
