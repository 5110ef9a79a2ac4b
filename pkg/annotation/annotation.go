package annotation

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Unknown is returned by feature accessors when the annotator left a feature out.
const Unknown = "unknown"

// Universal part-of-speech tags produced by the annotator.
const (
	POSNoun        = "NOUN"
	POSProperNoun  = "PROPN"
	POSVerb        = "VERB"
	POSAux         = "AUX"
	POSAdjective   = "ADJ"
	POSAdverb      = "ADV"
	POSDeterminer  = "DET"
	POSPronoun     = "PRON"
	POSAdposition  = "ADP"
	POSNumeral     = "NUM"
	POSCConj       = "CCONJ"
	POSSConj       = "SCONJ"
	POSParticle    = "PART"
	POSPunctuation = "PUNCT"
)

// Morphological feature names (Universal Dependencies).
const (
	FeatCase     = "Case"
	FeatGender   = "Gender"
	FeatNumber   = "Number"
	FeatTense    = "Tense"
	FeatMood     = "Mood"
	FeatVerbForm = "VerbForm"
	FeatDefinite = "Definite"
	FeatPronType = "PronType"
	FeatReflex   = "Reflex"
	FeatNumType  = "NumType"
	FeatPerson   = "Person"
)

// Token represents a single annotated unit of text.
type Token struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	// POS is the coarse universal tag (e.g. "NOUN").
	POS string `json:"pos"`
	// Tag is the fine-grained STTS tag (e.g. "VAFIN").
	Tag string `json:"tag"`
	// Dep is the dependency label relative to the token's head.
	Dep string `json:"dep"`
	// Morph is sparse: keys are absent when the annotator could not decide.
	Morph Morph `json:"morph,omitempty"`
	Index int   `json:"index"`
	// CharStart and CharEnd count characters (code points), not bytes, into
	// the sentence text. CharEnd is exclusive.
	CharStart int `json:"charStart"`
	CharEnd   int `json:"charEnd"`
}

// Feature returns the morphological feature value, or Unknown when absent.
func (t Token) Feature(name string) string {
	if v, ok := t.Morph[name]; ok && v != "" {
		return v
	}
	return Unknown
}

// HasFeature reports whether the annotator set the feature.
func (t Token) HasFeature(name string) bool {
	return t.Feature(name) != Unknown
}

// Is reports whether the token carries one of the given POS tags.
func (t Token) Is(pos ...string) bool {
	for _, p := range pos {
		if t.POS == p {
			return true
		}
	}
	return false
}

// IsVerbal reports whether the token is a full verb or an auxiliary.
func (t Token) IsVerbal() bool { return t.Is(POSVerb, POSAux) }

// IsFinite reports whether the token is a finite verb form.
func (t Token) IsFinite() bool {
	if !t.IsVerbal() {
		return false
	}
	return t.Feature(FeatVerbForm) == "Fin" || strings.HasSuffix(t.Tag, "FIN")
}

// IsInfinitive reports whether the token is a verb in infinitive form.
func (t Token) IsInfinitive() bool {
	if !t.IsVerbal() {
		return false
	}
	return t.Feature(FeatVerbForm) == "Inf" || strings.HasSuffix(t.Tag, "INF")
}

// IsParticiple reports whether the token is a past participle. Some annotators
// encode the participle as Tense=Perf instead of VerbForm=Part.
func (t Token) IsParticiple() bool {
	if !t.IsVerbal() {
		return false
	}
	return t.Feature(FeatVerbForm) == "Part" || t.Feature(FeatTense) == "Perf" || strings.HasSuffix(t.Tag, "PP")
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool { return t.POS == POSPunctuation }

// LowerText returns the surface form in lower case.
func (t Token) LowerText() string { return strings.ToLower(t.Text) }

// LowerLemma returns the lemma in lower case, falling back to the surface form.
func (t Token) LowerLemma() string {
	if t.Lemma == "" {
		return t.LowerText()
	}
	return strings.ToLower(t.Lemma)
}

// Sentence is the annotator's output for one sentence. It is read-only once decoded.
type Sentence struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
}

// HasQuestionMark reports whether the sentence text contains a "?".
func (s Sentence) HasQuestionMark() bool { return strings.Contains(s.Text, "?") }

// Len returns the length of the text in characters.
func (s Sentence) Len() int { return utf8.RuneCountInString(s.Text) }

// Slice returns the text between the character offsets start and end. It
// reports false when the range does not fit the text.
func (s Sentence) Slice(start, end int) (string, bool) {
	runes := []rune(s.Text)
	if start < 0 || start > end || end > len(runes) {
		return "", false
	}
	return string(runes[start:end]), true
}

// TokenAt returns the index of the token starting at charStart, or -1.
func (s Sentence) TokenAt(charStart int) int {
	for i, t := range s.Tokens {
		if t.CharStart == charStart {
			return i
		}
	}
	for i, t := range s.Tokens {
		if t.CharStart <= charStart && charStart < t.CharEnd {
			return i
		}
	}
	return -1
}

// Validate checks the token invariants: ordered indices, non-empty spans that
// do not overlap and lie within the text.
func (s Sentence) Validate() error {
	prevEnd, textLen := 0, s.Len()
	for i, t := range s.Tokens {
		if i > 0 && t.Index <= s.Tokens[i-1].Index {
			return errors.Newf("token %d: index %d not after %d", i, t.Index, s.Tokens[i-1].Index)
		}
		if t.CharStart >= t.CharEnd {
			return errors.Newf("token %d (%q): empty span [%d,%d)", i, t.Text, t.CharStart, t.CharEnd)
		}
		if t.CharStart < prevEnd {
			return errors.Newf("token %d (%q): span overlaps previous token", i, t.Text)
		}
		if t.CharEnd > textLen {
			return errors.Newf("token %d (%q): span exceeds sentence text", i, t.Text)
		}
		prevEnd = t.CharEnd
	}
	return nil
}

// ParseSentences decodes either a single sentence object or an array of them.
func ParseSentences(data []byte) ([]Sentence, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var out []Sentence
		if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
			return nil, errors.Wrap(err, "decode sentence array")
		}
		return out, nil
	}
	var wrapped struct {
		Sentences []Sentence `json:"sentences"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && len(wrapped.Sentences) > 0 {
		return wrapped.Sentences, nil
	}
	var single Sentence
	if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
		return nil, errors.Wrap(err, "decode sentence")
	}
	return []Sentence{single}, nil
}

// SplitSentences splits raw text on German sentence delimiters and newlines.
// Delimiters stay attached to the sentence they close.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		switch r {
		case '\n':
			flush()
		case '!', '?':
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			flush()
		case '.':
			// "z.B. gut" and "3.5" do not end a sentence.
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			if next := nextNonSpace(runes, i+1); next != 0 && !unicode.IsUpper(next) {
				continue
			}
			flush()
		}
	}
	flush()
	return sentences
}

// Chunks groups the sentences of text into pieces of at most maxChars
// characters, joined by single spaces. A sentence longer than maxChars forms
// a piece of its own.
func Chunks(text string, maxChars int) []string {
	var chunks []string
	var current strings.Builder
	size := 0
	for _, s := range SplitSentences(text) {
		n := utf8.RuneCountInString(s)
		if size > 0 && size+1+n > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
		if size > 0 {
			current.WriteByte(' ')
			size++
		}
		current.WriteString(s)
		size += n
	}
	if size > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func nextNonSpace(runes []rune, from int) rune {
	for _, r := range runes[from:] {
		if !unicode.IsSpace(r) {
			return r
		}
	}
	return 0
}
