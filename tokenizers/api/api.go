// Package api defines the Tokenizer API shared by the backends.
// It's a separate package so that every backend (greedy, sentencepiece) can
// implement it without importing another backend.
package api

// Tokenizer converts text to vocabulary token strings and integer ids, and back.
//
// Implementations are immutable once constructed: all methods are safe for
// concurrent use from multiple goroutines.
type Tokenizer interface {
	// Tokenize returns the ordered vocabulary token strings for text.
	// When addSpecialTokens is true the sequence is wrapped with the
	// beginning/end-of-sequence tokens.
	Tokenize(text string, addSpecialTokens bool) ([]string, error)

	// Encode returns the ordered token ids for text.
	Encode(text string, addSpecialTokens bool) ([]int, error)

	// Decode reconstructs text from token ids.
	// When skipSpecialTokens is true the beginning/end-of-sequence ids are
	// dropped before reconstruction.
	Decode(ids []int, skipSpecialTokens bool) (string, error)

	// SpecialTokenID returns the id for the given special token if registered,
	// or an error if not.
	SpecialTokenID(token SpecialToken) (int, error)
}

// BatchTokenizer is implemented by backends that can fan a batch of texts out
// across workers. Result order always matches input order.
type BatchTokenizer interface {
	Tokenizer
	BatchTokenize(texts []string, addSpecialTokens bool) ([][]string, error)
}

// SpecialToken is an enum of commonly used special tokens.
type SpecialToken int

const (
	TokBeginningOfSequence SpecialToken = iota
	TokEndOfSequence
	TokUnknown
	TokSpecialTokensCount
)

// String implements fmt.Stringer.
func (t SpecialToken) String() string {
	switch t {
	case TokBeginningOfSequence:
		return "beginning_of_sequence"
	case TokEndOfSequence:
		return "end_of_sequence"
	case TokUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}
