package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
)

// Source kinds accepted in configuration.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceURL      = "url"
)

// DefaultURL is the canonical English list in the BIP repository.
const DefaultURL = "https://raw.githubusercontent.com/bitcoin/bips/master/bip-0039/english.txt"

// NewSource selects a wordlist source by kind. An empty kind means embedded.
func NewSource(kind, path, url string, timeout time.Duration, logger *zap.Logger) (port.WordlistSource, error) {
	switch strings.ToLower(kind) {
	case "", SourceEmbedded:
		return NewEmbeddedSource(), nil
	case SourceFile:
		if path == "" {
			return nil, fmt.Errorf("wordlist source %q requires a path", kind)
		}
		return NewFileSource(path, logger), nil
	case SourceURL:
		if url == "" {
			url = DefaultURL
		}
		return NewURLSource(url, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown wordlist source %q", kind)
	}
}

// parseWords reads one word per line. Blank lines and lines starting with '#' are skipped.
func parseWords(r io.Reader) ([]string, error) {
	words := make([]string, 0, entity.WordlistSize)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
