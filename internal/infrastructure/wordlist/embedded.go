package wordlist

import (
	"context"

	"github.com/tyler-smith/go-bip39/wordlists"

	"seed_checker/internal/app/port"
	"seed_checker/internal/domain/entity"
)

type embeddedSource struct{}

// NewEmbeddedSource returns the English list compiled into the binary.
func NewEmbeddedSource() port.WordlistSource {
	return embeddedSource{}
}

func (embeddedSource) Load(context.Context) (*entity.Wordlist, error) {
	return entity.NewWordlist(wordlists.English)
}
