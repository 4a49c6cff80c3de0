package greedy

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSplitWhitespaceOnly(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "hello world", []string{"hello", "world"}},
		{"collapsing", "a  \t b\n\nc\r", []string{"a", "b", "c"}},
		{"leading and trailing", "  hi  ", []string{"hi"}},
		{"only whitespace", " \t\n\r ", nil},
		{"empty", "", nil},
		{"punctuation stays inside", "hello, world.", []string{"hello,", "world."}},
		{"multi-byte intact", "héllo wörld", []string{"héllo", "wörld"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitWords(tt.in, &whitespaceTable, false)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSplitWhitespaceAndPunct(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"sentence", "hello, world.", []string{"hello", ",", "world", "."}},
		{"punct runs", "a--b", []string{"a", "-", "-", "b"}},
		{"only punct", "?!", []string{"?", "!"}},
		{"brackets", "[CLS]", []string{"[", "CLS", "]"}},
		{"whitespace discarded", "a , b", []string{"a", ",", "b"}},
		// UTF-8 continuation bytes are outside the punctuation table even when
		// numerically in range, so multi-byte runes never split.
		{"multi-byte intact", "héllo…x", []string{"héllo…x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitWords(tt.in, &whitespaceOrPunctTable, true)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitAcrossBlockBoundary(t *testing.T) {
	// Place separators right around the 64-byte block edge.
	in := strings.Repeat("a", 63) + " " + strings.Repeat("b", 63) + "." + "c"
	got := splitWords(in, &whitespaceOrPunctTable, true)
	want := []string{strings.Repeat("a", 63), strings.Repeat("b", 63), ".", "c"}
	assert.Equal(t, want, got)
}

func TestSplitBlockMatchesScalar(t *testing.T) {
	properties := gopter.NewProperties(nil)

	check := func(table *byteTable, emitPunct bool) func(string) bool {
		return func(s string) bool {
			fast := splitWords(s, table, emitPunct)
			ref := splitWordsScalar(s, table, emitPunct)
			if len(fast) != len(ref) {
				return false
			}
			for i := range fast {
				if fast[i] != ref[i] {
					return false
				}
			}
			return true
		}
	}

	longText := gen.SliceOf(gen.OneConstOf(
		"word", " ", "\t", ",", ".", "##", "über", "🙂", "\n", "x",
	)).Map(func(parts []string) string { return strings.Join(parts, "") })

	properties.Property("whitespace table, any string", prop.ForAll(
		check(&whitespaceTable, false), gen.AnyString()))
	properties.Property("punct table, any string", prop.ForAll(
		check(&whitespaceOrPunctTable, true), gen.AnyString()))
	properties.Property("punct table, mixed long text", prop.ForAll(
		check(&whitespaceOrPunctTable, true), longText))
	properties.Property("whitespace table, mixed long text", prop.ForAll(
		check(&whitespaceTable, false), longText))

	properties.TestingRun(t)
}

func TestSplitFragmentsAreNonEmptyAndOrdered(t *testing.T) {
	in := "one two, three.four  five"
	for _, cfg := range []struct {
		table     *byteTable
		emitPunct bool
	}{
		{&whitespaceTable, false},
		{&whitespaceOrPunctTable, true},
	} {
		got := splitWords(in, cfg.table, cfg.emitPunct)
		last := -1
		for _, frag := range got {
			assert.NotEmpty(t, frag)
			idx := strings.Index(in[last+1:], frag)
			assert.GreaterOrEqual(t, idx, 0, "fragment %q out of order", frag)
			last += 1 + idx
		}
	}
}
