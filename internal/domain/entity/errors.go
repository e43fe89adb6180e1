package entity

import "errors"

// Wordlist and generation preconditions. These are fatal and never retried.
var (
	ErrSourceUnavailable    = errors.New("wordlist source unavailable")
	ErrMalformedWordlist    = errors.New("malformed wordlist")
	ErrInsufficientWordlist = errors.New("insufficient words after exclusions")
	ErrInvalidWordCount     = errors.New("invalid mnemonic word count")
	ErrInvalidEntropyLength = errors.New("invalid entropy length")
	ErrAttemptsExhausted    = errors.New("mnemonic generation attempts exhausted")
)

// Per-chain query failures. The aggregator recovers from both.
var (
	ErrNotFound  = errors.New("address not found")
	ErrTransient = errors.New("transient chain query failure")
)

var (
	ErrUnknownChainFamily = errors.New("unknown chain family")
	ErrAlreadyRunning     = errors.New("search loop already running")
)
