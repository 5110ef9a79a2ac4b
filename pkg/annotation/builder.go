package annotation

import (
	"strings"
	"unicode/utf8"
)

// Builder assembles a Sentence from words, computing indices and character
// offsets. Punctuation attaches to the previous word without a space.
type Builder struct {
	text   strings.Builder
	runes  int
	tokens []Token
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends a token. Text, Lemma, POS, Tag, Dep and Morph are taken from t;
// Index and offsets are overwritten.
func (b *Builder) Add(t Token) *Builder {
	if b.text.Len() > 0 && t.POS != POSPunctuation {
		b.text.WriteByte(' ')
		b.runes++
	}
	t.Index = len(b.tokens)
	t.CharStart = b.runes
	b.text.WriteString(t.Text)
	b.runes += utf8.RuneCountInString(t.Text)
	t.CharEnd = b.runes
	b.tokens = append(b.tokens, t)
	return b
}

// Word appends a token from its surface form, lemma, POS and UD morph string.
func (b *Builder) Word(text, lemma, pos, morph string) *Builder {
	return b.Add(Token{Text: text, Lemma: lemma, POS: pos, Morph: ParseMorph(morph)})
}

// Punct appends a punctuation token.
func (b *Builder) Punct(text string) *Builder {
	return b.Add(Token{Text: text, Lemma: text, POS: POSPunctuation})
}

// Sentence returns the assembled sentence.
func (b *Builder) Sentence() Sentence {
	tokens := make([]Token, len(b.tokens))
	copy(tokens, b.tokens)
	return Sentence{Text: b.text.String(), Tokens: tokens}
}
