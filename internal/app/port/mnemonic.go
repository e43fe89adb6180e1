package port

import (
	"context"

	"seed_checker/internal/domain/entity"
)

// WordlistSource supplies the BIP-39 wordlist.
type WordlistSource interface {
	Load(ctx context.Context) (*entity.Wordlist, error)
}

// MnemonicGenerator produces checksum-valid candidate mnemonics.
type MnemonicGenerator interface {
	GenerateExcluding(wordCount int, exclusions []string) (entity.Mnemonic, error)
}

// MnemonicValidator validates phrases.
type MnemonicValidator interface {
	Validate(phrase string) entity.ValidationOutcome
}
