package greedy

import "math/bits"

// byteTable classifies single byte values. Continuation bytes of multi-byte
// UTF-8 sequences (0x80-0xBF) are never set, so they always flow through as
// fragment content.
type byteTable [256]bool

var (
	// whitespaceTable marks the ASCII whitespace bytes the pre-splitter
	// separates on in Metaspace mode.
	whitespaceTable byteTable

	// whitespaceOrPunctTable additionally marks ASCII punctuation
	// (33-47, 58-64, 91-96, 123-126) for WordPiece mode.
	whitespaceOrPunctTable byteTable

	// punctTable marks ASCII punctuation only; the detokenizer uses it to
	// suppress the space before single-byte punctuation tokens.
	punctTable byteTable
)

func init() {
	for _, b := range []byte{' ', '\t', '\n', '\r'} {
		whitespaceTable[b] = true
		whitespaceOrPunctTable[b] = true
	}
	for _, span := range [][2]byte{{33, 47}, {58, 64}, {91, 96}, {123, 126}} {
		for b := span[0]; b <= span[1]; b++ {
			punctTable[b] = true
			whitespaceOrPunctTable[b] = true
		}
	}
}

// splitBlockSize is the number of bytes classified per split-mask word.
const splitBlockSize = 64

// splitWords splits text into word-like fragments according to the byte table.
// Split bytes marked in the table end the pending fragment; when emitPunct is
// set, split bytes that are not whitespace are emitted as their own single-byte
// fragments. Fragments are substrings of text, non-empty and in input order.
//
// The bulk of the input is processed in 64-byte blocks: a bitmask marks the
// split bytes in each block and is drained lowest-set-bit first, matching the
// scalar path below byte for byte.
func splitWords(text string, table *byteTable, emitPunct bool) []string {
	if len(text) == 0 {
		return nil
	}
	result := make([]string, 0, len(text)/4)
	wordStart := 0

	i := 0
	for ; i+splitBlockSize <= len(text); i += splitBlockSize {
		var mask uint64
		for j := 0; j < splitBlockSize; j++ {
			if table[text[i+j]] {
				mask |= 1 << uint(j)
			}
		}
		for mask != 0 {
			pos := i + bits.TrailingZeros64(mask)
			if pos > wordStart {
				result = append(result, text[wordStart:pos])
			}
			if emitPunct && !whitespaceTable[text[pos]] {
				result = append(result, text[pos:pos+1])
			}
			wordStart = pos + 1
			mask &= mask - 1
		}
	}

	for ; i < len(text); i++ {
		if !table[text[i]] {
			continue
		}
		if i > wordStart {
			result = append(result, text[wordStart:i])
		}
		if emitPunct && !whitespaceTable[text[i]] {
			result = append(result, text[i:i+1])
		}
		wordStart = i + 1
	}

	if wordStart < len(text) {
		result = append(result, text[wordStart:])
	}
	return result
}

// splitWordsScalar is the byte-at-a-time reference implementation of
// splitWords. Both must produce identical output on every input.
func splitWordsScalar(text string, table *byteTable, emitPunct bool) []string {
	if len(text) == 0 {
		return nil
	}
	result := make([]string, 0, len(text)/4)
	wordStart := 0
	for i := 0; i < len(text); i++ {
		if !table[text[i]] {
			continue
		}
		if i > wordStart {
			result = append(result, text[wordStart:i])
		}
		if emitPunct && !whitespaceTable[text[i]] {
			result = append(result, text[i:i+1])
		}
		wordStart = i + 1
	}
	if wordStart < len(text) {
		result = append(result, text[wordStart:])
	}
	return result
}

// split runs the pre-splitter with the vocabulary's active mode.
func (v *vocabulary) split(text string) []string {
	return splitWords(text, v.splitTable, v.mode == ModeWordPiece)
}
