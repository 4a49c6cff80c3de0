// Package sentencepiece implements an api.Tokenizer backed by a SentencePiece
// "tokenizer.model" proto, for vocabularies shipped in that format instead of
// tokenizer.json.
package sentencepiece

import (
	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/pkg/errors"

	"github.com/gomlx/go-subword/tokenizers/api"
)

// SentencePiece models use a fixed pair of sequence markers.
const (
	bosText = "<s>"
	eosText = "</s>"
)

// Tokenizer adapts a SentencePiece processor to the api.Tokenizer interface.
type Tokenizer struct {
	proc *esentencepiece.Processor
	info *esentencepiece.ModelInfo
}

// Compile time assert that Tokenizer implements the api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// NewFromFile creates a tokenizer from a local tokenizer.model file, which
// must be a SentencePiece Model proto.
func NewFromFile(path string) (*Tokenizer, error) {
	proc, err := esentencepiece.NewProcessorFromPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from %q", path)
	}
	return &Tokenizer{proc: proc, info: proc.ModelInfo()}, nil
}

// Tokenize returns the piece strings for text.
func (t *Tokenizer) Tokenize(text string, addSpecialTokens bool) ([]string, error) {
	pieces := t.proc.Encode(text)
	tokens := make([]string, 0, len(pieces)+2)
	if addSpecialTokens {
		tokens = append(tokens, bosText)
	}
	for _, p := range pieces {
		tokens = append(tokens, p.Text)
	}
	if addSpecialTokens {
		tokens = append(tokens, eosText)
	}
	return tokens, nil
}

// Encode returns the piece ids for text.
func (t *Tokenizer) Encode(text string, addSpecialTokens bool) ([]int, error) {
	pieces := t.proc.Encode(text)
	ids := make([]int, 0, len(pieces)+2)
	if addSpecialTokens {
		ids = append(ids, t.info.BeginningOfSentenceID)
	}
	for _, p := range pieces {
		ids = append(ids, p.ID)
	}
	if addSpecialTokens {
		ids = append(ids, t.info.EndOfSentenceID)
	}
	return ids, nil
}

// Decode returns the text for a sequence of piece ids.
func (t *Tokenizer) Decode(ids []int, skipSpecialTokens bool) (string, error) {
	if skipSpecialTokens {
		kept := make([]int, 0, len(ids))
		for _, id := range ids {
			if id == t.info.BeginningOfSentenceID || id == t.info.EndOfSentenceID {
				continue
			}
			kept = append(kept, id)
		}
		ids = kept
	}
	return t.proc.Decode(ids), nil
}

// SpecialTokenID returns the id for the given special token.
func (t *Tokenizer) SpecialTokenID(token api.SpecialToken) (int, error) {
	switch token {
	case api.TokBeginningOfSequence:
		return t.info.BeginningOfSentenceID, nil
	case api.TokEndOfSequence:
		return t.info.EndOfSentenceID, nil
	case api.TokUnknown:
		return t.info.UnknownID, nil
	default:
		return 0, errors.Errorf("unknown special token: %s (%d)", token, int(token))
	}
}
