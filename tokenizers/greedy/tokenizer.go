// Package greedy implements a trie-based greedy longest-prefix-match tokenizer
// for HuggingFace tokenizer.json vocabularies.
//
// A single engine covers the two decoding conventions the file format carries:
// Metaspace (SentencePiece-style, word starts marked with a "▁" prefix) and
// WordPiece (BERT-style, continuation pieces marked with a "##" prefix). The
// vocabulary is compiled into a byte-indexed trie at load time; tokenization is
// a greedy longest-prefix walk with UTF-8-safe UNK fallback.
package greedy

import (
	"sync"

	"github.com/gomlx/go-subword/tokenizers/api"
	"github.com/pkg/errors"
)

// DefaultParallelism is the worker count BatchTokenize fans out across unless
// overridden with WithParallelism.
const DefaultParallelism = 3

// Tokenizer is the engine facade. The zero value is usable but unloaded: every
// read operation returns ErrNotLoaded until Load (or a constructor) succeeds.
//
// Once loaded the engine is immutable and all read operations are safe for
// concurrent use. Load itself is not safe to call concurrently with readers;
// the usual pattern is to load once at startup and share.
type Tokenizer struct {
	vocab *vocabulary

	parallelism int
	noMmap      bool
}

// Compile time assert that Tokenizer implements the api interfaces.
var (
	_ api.Tokenizer      = &Tokenizer{}
	_ api.BatchTokenizer = &Tokenizer{}
)

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithParallelism sets the number of workers BatchTokenize uses.
func WithParallelism(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.parallelism = n
		}
	}
}

// WithoutMmap forces Load to read the vocabulary file through plain file I/O
// even when it is large enough for the mmap path.
func WithoutMmap() Option {
	return func(t *Tokenizer) { t.noMmap = true }
}

// New returns an empty engine; call Load before any read operation.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{parallelism: DefaultParallelism}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewFromFile creates a tokenizer from a local tokenizer.json file path.
func NewFromFile(path string, opts ...Option) (*Tokenizer, error) {
	t := New(opts...)
	if err := t.Load(path); err != nil {
		return nil, err
	}
	return t, nil
}

// NewFromContent creates a tokenizer from tokenizer.json content.
func NewFromContent(content []byte, opts ...Option) (*Tokenizer, error) {
	t := New(opts...)
	vocab, err := loadVocabulary(content)
	if err != nil {
		return nil, err
	}
	t.vocab = vocab
	return t, nil
}

// Load reads and compiles the vocabulary file at path, replacing any
// previously loaded state. On failure the previous state is kept untouched.
func (t *Tokenizer) Load(path string) error {
	content, err := readVocabularyFile(path, !t.noMmap)
	if err != nil {
		return err
	}
	vocab, err := loadVocabulary(content)
	if err != nil {
		return err
	}
	t.vocab = vocab
	return nil
}

// loaded returns the vocabulary, or ErrNotLoaded.
func (t *Tokenizer) loaded() (*vocabulary, error) {
	if t.vocab == nil {
		return nil, ErrNotLoaded
	}
	return t.vocab, nil
}

// Tokenize converts text into its ordered vocabulary token strings.
func (t *Tokenizer) Tokenize(text string, addSpecialTokens bool) ([]string, error) {
	v, err := t.loaded()
	if err != nil {
		return nil, err
	}
	return v.tokenizeText(text, addSpecialTokens), nil
}

// Encode converts text directly into its ordered token ids. The result always
// equals ConvertTokensToIDs(Tokenize(text)).
func (t *Tokenizer) Encode(text string, addSpecialTokens bool) ([]int, error) {
	v, err := t.loaded()
	if err != nil {
		return nil, err
	}
	return v.encodeText(text, addSpecialTokens), nil
}

// BatchTokenize tokenizes texts across a bounded worker pool. Items are
// scheduled dynamically so long inputs do not stall short ones; result order
// matches input order.
func (t *Tokenizer) BatchTokenize(texts []string, addSpecialTokens bool) ([][]string, error) {
	v, err := t.loaded()
	if err != nil {
		return nil, err
	}

	results := make([][]string, len(texts))
	workers := t.parallelism
	if workers <= 0 {
		workers = DefaultParallelism
	}
	if workers > len(texts) {
		workers = len(texts)
	}
	if workers <= 1 {
		for i, text := range texts {
			results[i] = v.tokenizeText(text, addSpecialTokens)
		}
		return results, nil
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = v.tokenizeText(texts[i], addSpecialTokens)
			}
		}()
	}
	for i := range texts {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results, nil
}

// Decode reconstructs text from token ids. Ids absent from the vocabulary are
// dropped silently. When skipSpecialTokens is set the bos/eos ids are skipped
// before reconstruction.
func (t *Tokenizer) Decode(ids []int, skipSpecialTokens bool) (string, error) {
	v, err := t.loaded()
	if err != nil {
		return "", err
	}
	return v.decodeIDs(ids, skipSpecialTokens), nil
}

// ConvertTokensToIDs maps token strings to ids; unknown tokens map to the UNK
// id. When addSpecialTokens is set the result is wrapped with the bos/eos ids.
func (t *Tokenizer) ConvertTokensToIDs(tokens []string, addSpecialTokens bool) ([]int, error) {
	v, err := t.loaded()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(tokens)+2)
	if addSpecialTokens {
		ids = append(ids, v.bos.id)
	}
	for _, token := range tokens {
		if id, ok := v.tokenToID[token]; ok {
			ids = append(ids, id)
		} else {
			ids = append(ids, v.unk.id)
		}
	}
	if addSpecialTokens {
		ids = append(ids, v.eos.id)
	}
	return ids, nil
}

// ConvertIDsToTokens maps ids to token strings; unknown ids map to the UNK
// token. When skipSpecialTokens is set the bos/eos ids are dropped.
func (t *Tokenizer) ConvertIDsToTokens(ids []int, skipSpecialTokens bool) ([]string, error) {
	v, err := t.loaded()
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		if skipSpecialTokens && v.isSpecialID(id) {
			continue
		}
		if token, ok := v.idToToken[id]; ok {
			tokens = append(tokens, token)
		} else {
			tokens = append(tokens, v.unk.text)
		}
	}
	return tokens, nil
}

// ConvertTokensToText reconstructs text from token strings, skipping bos/eos.
func (t *Tokenizer) ConvertTokensToText(tokens []string) (string, error) {
	v, err := t.loaded()
	if err != nil {
		return "", err
	}
	return v.tokensToText(tokens), nil
}

// SpecialTokenID returns the id for the given special token.
func (t *Tokenizer) SpecialTokenID(token api.SpecialToken) (int, error) {
	v, err := t.loaded()
	if err != nil {
		return 0, err
	}
	switch token {
	case api.TokBeginningOfSequence:
		return v.bos.id, nil
	case api.TokEndOfSequence:
		return v.eos.id, nil
	case api.TokUnknown:
		return v.unk.id, nil
	default:
		return 0, errors.Errorf("unknown special token: %s (%d)", token, int(token))
	}
}

// Mode returns the loaded vocabulary convention.
func (t *Tokenizer) Mode() (Mode, error) {
	v, err := t.loaded()
	if err != nil {
		return 0, err
	}
	return v.mode, nil
}

// VocabSize returns the number of loaded vocabulary tokens.
func (t *Tokenizer) VocabSize() (int, error) {
	v, err := t.loaded()
	if err != nil {
		return 0, err
	}
	return len(v.tokenToID), nil
}

// tokenizeText runs the full split/segment pipeline emitting token strings.
func (v *vocabulary) tokenizeText(text string, addSpecialTokens bool) []string {
	fragments := v.split(text)
	tokens := make([]string, 0, len(text)/2+2)
	if addSpecialTokens {
		tokens = append(tokens, v.bos.text)
	}

	var workBuf []byte
	if v.mode == ModeMetaspace {
		workBuf = make([]byte, 0, len(v.subwordPrefix)+maxFragmentLen(fragments))
	}
	pieces := make([]piece, 0, 16)
	for _, fragment := range fragments {
		if v.mode == ModeMetaspace {
			workBuf = append(workBuf[:0], v.subwordPrefix...)
			workBuf = append(workBuf, fragment...)
			pieces = segment(v, workBuf, pieces[:0])
			for _, p := range pieces {
				if p.unk {
					tokens = append(tokens, v.unk.text)
				} else {
					tokens = append(tokens, string(workBuf[p.start:p.start+p.length]))
				}
			}
		} else {
			pieces = segment(v, fragment, pieces[:0])
			for _, p := range pieces {
				switch {
				case p.unk:
					tokens = append(tokens, v.unk.text)
				case p.continuation:
					tokens = append(tokens, v.subwordPrefix+fragment[p.start:p.start+p.length])
				default:
					tokens = append(tokens, fragment[p.start:p.start+p.length])
				}
			}
		}
	}

	if addSpecialTokens {
		tokens = append(tokens, v.eos.text)
	}
	return tokens
}

// encodeText runs the full split/segment pipeline emitting ids.
func (v *vocabulary) encodeText(text string, addSpecialTokens bool) []int {
	fragments := v.split(text)
	ids := make([]int, 0, len(text)/2+2)
	if addSpecialTokens {
		ids = append(ids, v.bos.id)
	}

	var workBuf []byte
	if v.mode == ModeMetaspace {
		workBuf = make([]byte, 0, len(v.subwordPrefix)+maxFragmentLen(fragments))
	}
	pieces := make([]piece, 0, 16)
	for _, fragment := range fragments {
		if v.mode == ModeMetaspace {
			workBuf = append(workBuf[:0], v.subwordPrefix...)
			workBuf = append(workBuf, fragment...)
			pieces = segment(v, workBuf, pieces[:0])
		} else {
			pieces = segment(v, fragment, pieces[:0])
		}
		for _, p := range pieces {
			ids = append(ids, p.id)
		}
	}

	if addSpecialTokens {
		ids = append(ids, v.eos.id)
	}
	return ids
}

func maxFragmentLen(fragments []string) int {
	longest := 0
	for _, f := range fragments {
		if len(f) > longest {
			longest = len(f)
		}
	}
	return longest
}
