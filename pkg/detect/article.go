package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// ArticleDetector reports definite and indefinite articles.
type ArticleDetector struct {
	points
}

// NewArticleDetector returns an ArticleDetector backed by the catalog.
func NewArticleDetector(c *taxonomy.Catalog) *ArticleDetector {
	return &ArticleDetector{points{c}}
}

func (d *ArticleDetector) Name() string { return "article" }

func (d *ArticleDetector) Category() taxonomy.Category { return taxonomy.CategoryArticle }

func (d *ArticleDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for _, t := range s.Tokens {
		if !t.Is(annotation.POSDeterminer) {
			continue
		}
		var id, definiteness string
		switch t.Feature(annotation.FeatDefinite) {
		case "Def":
			id, definiteness = "definite-article", "definite"
		case "Ind":
			id, definiteness = "indefinite-article", "indefinite"
		default:
			continue
		}
		details := ArticleDetails{
			Article:      t.Text,
			Definiteness: definiteness,
			Case:         known(t.Feature(annotation.FeatCase)),
			Gender:       known(t.Feature(annotation.FeatGender)),
			Number:       known(t.Feature(annotation.FeatNumber)),
		}
		if r, ok := d.result(id, TokenSpan(t), 0.80, details); ok {
			out = append(out, r)
		}
	}
	return out
}

func known(v string) string {
	if v == annotation.Unknown {
		return ""
	}
	return v
}

// PrepositionDetector classifies prepositions by the case they govern.
type PrepositionDetector struct {
	points
}

// NewPrepositionDetector returns a PrepositionDetector backed by the catalog.
func NewPrepositionDetector(c *taxonomy.Catalog) *PrepositionDetector {
	return &PrepositionDetector{points{c}}
}

func (d *PrepositionDetector) Name() string { return "preposition" }

func (d *PrepositionDetector) Category() taxonomy.Category { return taxonomy.CategoryPreposition }

func (d *PrepositionDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i, t := range s.Tokens {
		if !t.Is(annotation.POSAdposition) {
			continue
		}
		form := t.LowerText()
		obj := prepositionObject(s, i)
		details := PrepositionDetails{Preposition: t.Text}
		if obj >= 0 {
			details.Object = s.Tokens[obj].Text
		}
		var id string
		switch {
		case genitivePrepositions[form]:
			id, details.Governs = "genitive-preposition", "genitive"
		case twoWayPrepositions[form]:
			id, details.Governs = "two-way-preposition", twoWayCase(s, form, obj)
		case accusativePrepositions[form]:
			id, details.Governs = "accusative-preposition", "accusative"
		case dativePrepositions[form]:
			id, details.Governs = "dative-preposition", "dative"
		default:
			continue
		}
		if r, ok := d.result(id, TokenSpan(t), 0.80, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// prepositionObject returns the first nominal token within four tokens
// after the preposition, or -1.
func prepositionObject(s annotation.Sentence, i int) int {
	for j := i + 1; j <= i+4 && j < len(s.Tokens); j++ {
		t := s.Tokens[j]
		if t.IsPunct() || t.IsVerbal() {
			return -1
		}
		if t.Is(annotation.POSNoun, annotation.POSProperNoun, annotation.POSPronoun) {
			return j
		}
	}
	return -1
}

// twoWayCase reads the case of a two-way preposition from its contraction
// or its object: dative for location, accusative for direction.
func twoWayCase(s annotation.Sentence, form string, obj int) string {
	switch form {
	case "am", "im":
		return "dative"
	case "ans", "ins", "aufs":
		return "accusative"
	}
	if obj < 0 {
		return "two-way"
	}
	for j := obj; j > 0 && s.Tokens[j].Is(annotation.POSNoun, annotation.POSProperNoun, annotation.POSPronoun, annotation.POSDeterminer, annotation.POSAdjective); j-- {
		switch s.Tokens[j].Feature(annotation.FeatCase) {
		case "Dat":
			return "dative"
		case "Acc":
			return "accusative"
		}
	}
	return "two-way"
}
