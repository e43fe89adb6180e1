package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/httpclient"
)

const addressPlaceholder = "{address}"

// classify maps a transport or decoding error onto entity.ErrNotFound or entity.ErrTransient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrTransient) {
		return err
	}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound, http.StatusBadRequest:
			return fmt.Errorf("%w: %v", entity.ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %v", entity.ErrTransient, err)
}

// withFallback runs primary and, if it fails and a backup exists, backup once.
func withFallback[T any](primary func() (T, error), backup func() (T, error)) (T, error) {
	res, perr := primary()
	if perr == nil {
		return res, nil
	}
	if backup == nil {
		return res, classify(perr)
	}
	res, berr := backup()
	if berr == nil {
		return res, nil
	}
	return res, fmt.Errorf("primary: %v; backup: %w", perr, classify(berr))
}

func expandURL(template, address string) string {
	if strings.Contains(template, addressPlaceholder) {
		return strings.ReplaceAll(template, addressPlaceholder, address)
	}
	return strings.TrimRight(template, "/") + "/" + address
}

func malformedAddress(chain, address string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: malformed %s address %q: %v", entity.ErrNotFound, chain, address, cause)
	}
	return fmt.Errorf("%w: malformed %s address %q", entity.ErrNotFound, chain, address)
}
