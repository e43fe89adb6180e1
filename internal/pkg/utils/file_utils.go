package utils

import (
	"os"

	"seed_checker/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadTokensFromJSON читает JSON-файл со списком токенов.
func LoadTokensFromJSON(filePath string) ([]entity.TokenInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var tokens []entity.TokenInfo
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}
