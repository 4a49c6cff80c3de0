package greedy

import "github.com/pkg/errors"

var (
	// ErrMalformedVocabulary is returned by Load when the vocabulary file does
	// not parse or misses a required field. Errors carrying detail wrap it, so
	// test with errors.Is.
	ErrMalformedVocabulary = errors.New("malformed vocabulary")

	// ErrNotLoaded is returned by every read operation invoked before a
	// successful Load.
	ErrNotLoaded = errors.New("tokenizer not loaded")
)
