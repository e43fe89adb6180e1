package wordlist

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/httpclient"
)

// URLSource downloads a plain-text wordlist over HTTP.
type URLSource struct {
	url    string
	http   *httpclient.Client
	logger *zap.Logger
}

// NewURLSource creates a new URLSource.
func NewURLSource(url string, timeout time.Duration, logger *zap.Logger) port.WordlistSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLSource{
		url:    url,
		http:   httpclient.New(timeout, logger),
		logger: logger.Named("WordlistURLSource"),
	}
}

// Load fetches and validates the list.
func (s *URLSource) Load(ctx context.Context) (*entity.Wordlist, error) {
	body, err := s.http.Get(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}

	words, err := parseWords(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceUnavailable, err)
	}

	wl, err := entity.NewWordlist(words)
	if err != nil {
		return nil, fmt.Errorf("wordlist from %s: %w", s.url, err)
	}
	s.logger.Info("Wordlist downloaded", zap.String("url", s.url), zap.Int("count", wl.Len()))
	return wl, nil
}
