package greedy

import "strings"

// decodeIDs resolves ids through the id/token map and joins the results.
// Ids absent from the vocabulary are dropped silently; decoding never errors.
func (v *vocabulary) decodeIDs(ids []int, skipSpecial bool) string {
	var sb strings.Builder
	sb.Grow(len(ids) * 4)
	for _, id := range ids {
		if skipSpecial && v.isSpecialID(id) {
			continue
		}
		token, ok := v.idToToken[id]
		if !ok {
			continue
		}
		v.appendToken(&sb, token)
	}
	return sb.String()
}

// tokensToText joins token strings, skipping the bos/eos tokens.
func (v *vocabulary) tokensToText(tokens []string) string {
	var sb strings.Builder
	sb.Grow(len(tokens) * 4)
	for _, token := range tokens {
		if v.isSpecialText(token) {
			continue
		}
		v.appendToken(&sb, token)
	}
	return sb.String()
}

// appendToken writes one token to the output under the mode's joining rules.
//
// Metaspace: a token carrying the subword prefix starts a new word, so it is
// space-separated (after the first word) and the prefix is stripped; anything
// else is a continuation piece and appends verbatim. WordPiece: a token
// carrying the prefix is a continuation piece and appends bare; anything else
// starts a word and is space-separated, except single-byte ASCII punctuation,
// which attaches directly to the previous word.
func (v *vocabulary) appendToken(sb *strings.Builder, token string) {
	prefixLen := len(v.subwordPrefix)
	switch v.mode {
	case ModeMetaspace:
		if strings.HasPrefix(token, v.subwordPrefix) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(token[prefixLen:])
		} else {
			sb.WriteString(token)
		}
	case ModeWordPiece:
		if len(token) > prefixLen && strings.HasPrefix(token, v.subwordPrefix) {
			sb.WriteString(token[prefixLen:])
		} else {
			isPunct := len(token) == 1 && punctTable[token[0]]
			if !isPunct && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(token)
		}
	default:
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(token)
	}
}
