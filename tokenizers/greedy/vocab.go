package greedy

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Mode selects the vocabulary convention the engine operates under.
type Mode int

const (
	// ModeMetaspace is the SentencePiece-style convention: the first piece of
	// each word carries the subword prefix (usually "▁").
	ModeMetaspace Mode = iota

	// ModeWordPiece is the BERT-style convention: non-initial pieces of a word
	// carry the subword prefix (usually "##").
	ModeWordPiece
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeMetaspace:
		return "Metaspace"
	case ModeWordPiece:
		return "WordPiece"
	default:
		return "invalid"
	}
}

const (
	defaultMetaspacePrefix = "▁" // ▁, three UTF-8 bytes
	defaultWordPiecePrefix = "##"

	// Vocabulary files at least this large are read through mmap.
	mmapThreshold = 1 << 20
)

// Default special token triples per vocabulary family.
const (
	spUnkToken = "<unk>"
	spBosToken = "<s>"
	spEosToken = "</s>"

	wpUnkToken = "[UNK]"
	wpBosToken = "[CLS]"
	wpEosToken = "[SEP]"
)

// tokenizerJSON mirrors the parts of HuggingFace's tokenizer.json file this
// engine consumes.
type tokenizerJSON struct {
	AddedTokens []addedToken `json:"added_tokens"`
	Decoder     *decoderJSON `json:"decoder"`
	Model       modelJSON    `json:"model"`
}

// addedToken represents a special token added to the vocabulary.
type addedToken struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Special bool   `json:"special"`
}

// decoderJSON carries the decoder configuration. Type selects the mode;
// Replacement (Metaspace) or Prefix (WordPiece) overrides the subword prefix.
type decoderJSON struct {
	Type        string `json:"type"`
	Replacement string `json:"replacement"`
	Prefix      string `json:"prefix"`
}

// modelJSON carries the vocabulary itself.
type modelJSON struct {
	UnkToken string         `json:"unk_token"`
	Vocab    map[string]int `json:"vocab"`
}

// specialToken is one of the unk/bos/eos (string, id) pairs.
type specialToken struct {
	text string
	id   int
}

// vocabulary is the immutable state produced by a successful load.
type vocabulary struct {
	mode          Mode
	subwordPrefix string

	unk specialToken
	bos specialToken
	eos specialToken

	tokenToID map[string]int
	idToToken map[int]string
	trie      *byteTrie

	splitTable *byteTable

	// Trie node reached by walking the subword prefix from the root. WordPiece
	// continuation matches start here instead of re-walking the prefix for
	// every piece. contOK is false when the prefix is not a live trie path
	// (possible with a truncated vocabulary); continuation matches are then
	// impossible and fall through to UNK.
	contNode int32
	contOK   bool
}

// readVocabularyFile reads the whole vocabulary file, through mmap when it is
// large enough to make that worthwhile.
func readVocabularyFile(path string, allowMmap bool) ([]byte, error) {
	if allowMmap {
		if info, err := os.Stat(path); err == nil && info.Size() >= mmapThreshold {
			return readVocabularyMmap(path)
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read vocabulary file %q", path)
	}
	return content, nil
}

func readVocabularyMmap(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open vocabulary file %q", path)
	}
	defer func() { _ = f.Close() }()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to mmap vocabulary file %q", path)
	}
	defer func() { _ = m.Unmap() }()

	// The mapping is released on return; the content must outlive it.
	content := make([]byte, len(m))
	copy(content, m)
	return content, nil
}

// loadVocabulary parses tokenizer.json content and builds the trie and both
// token/id maps. It returns ErrMalformedVocabulary (wrapped with detail) on
// parse failures, missing required fields, or an unknown unk_token value.
func loadVocabulary(content []byte) (*vocabulary, error) {
	var tj tokenizerJSON
	if err := json.Unmarshal(content, &tj); err != nil {
		return nil, errors.Wrapf(ErrMalformedVocabulary, "parsing vocabulary JSON: %v", err)
	}

	v := &vocabulary{}
	if tj.Decoder == nil || tj.Decoder.Type == "" {
		return nil, errors.Wrap(ErrMalformedVocabulary, "decoder.type is missing")
	}
	switch tj.Decoder.Type {
	case "Metaspace":
		v.mode = ModeMetaspace
		v.subwordPrefix = tj.Decoder.Replacement
		if v.subwordPrefix == "" {
			v.subwordPrefix = defaultMetaspacePrefix
		}
		v.splitTable = &whitespaceTable
	case "WordPiece":
		v.mode = ModeWordPiece
		v.subwordPrefix = tj.Decoder.Prefix
		if v.subwordPrefix == "" {
			v.subwordPrefix = defaultWordPiecePrefix
		}
		v.splitTable = &whitespaceOrPunctTable
	default:
		return nil, errors.Wrapf(ErrMalformedVocabulary, "unknown decoder.type %q", tj.Decoder.Type)
	}

	if err := v.resolveSpecialTokens(&tj); err != nil {
		return nil, err
	}

	if tj.Model.Vocab == nil {
		return nil, errors.Wrap(ErrMalformedVocabulary, "model.vocab is missing")
	}

	vocabSize := len(tj.Model.Vocab)
	v.tokenToID = make(map[string]int, vocabSize+len(tj.AddedTokens))
	v.idToToken = make(map[int]string, vocabSize+len(tj.AddedTokens))
	v.trie = newByteTrie(vocabSize * 3)
	for token, id := range tj.Model.Vocab {
		v.tokenToID[token] = id
		v.idToToken[id] = token
		v.trie.insert(token, id)
	}
	for _, at := range tj.AddedTokens {
		v.tokenToID[at.Content] = at.ID
		v.idToToken[at.ID] = at.Content
		v.trie.insert(at.Content, at.ID)
	}

	if v.mode == ModeWordPiece {
		v.contNode, v.contOK = v.trie.walkPrefix(0, v.subwordPrefix)
	}

	klog.V(1).Infof("loaded %s vocabulary: %d tokens, %d trie nodes, subword prefix %q",
		v.mode, len(v.tokenToID), v.trie.size(), v.subwordPrefix)
	return v, nil
}

// resolveSpecialTokens scans added_tokens for the special-token triple selected
// by model.unk_token.
func (v *vocabulary) resolveSpecialTokens(tj *tokenizerJSON) error {
	var unkText, bosText, eosText string
	switch tj.Model.UnkToken {
	case spUnkToken:
		unkText, bosText, eosText = spUnkToken, spBosToken, spEosToken
	case wpUnkToken:
		unkText, bosText, eosText = wpUnkToken, wpBosToken, wpEosToken
	case "":
		return errors.Wrap(ErrMalformedVocabulary, "model.unk_token is missing")
	default:
		return errors.Wrapf(ErrMalformedVocabulary, "unknown model.unk_token %q", tj.Model.UnkToken)
	}

	found := 0
	for _, at := range tj.AddedTokens {
		switch at.Content {
		case unkText:
			v.unk = specialToken{text: at.Content, id: at.ID}
			found++
		case bosText:
			v.bos = specialToken{text: at.Content, id: at.ID}
			found++
		case eosText:
			v.eos = specialToken{text: at.Content, id: at.ID}
			found++
		}
	}
	if found != 3 {
		return errors.Wrapf(ErrMalformedVocabulary,
			"added_tokens must contain %q, %q and %q", unkText, bosText, eosText)
	}
	return nil
}

// isSpecialID reports whether id is the bos or eos id.
func (v *vocabulary) isSpecialID(id int) bool {
	return id == v.bos.id || id == v.eos.id
}

// isSpecialText reports whether token is the bos or eos token string.
func (v *vocabulary) isSpecialText(token string) bool {
	return token == v.bos.text || token == v.eos.text
}
