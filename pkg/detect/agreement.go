package detect

import (
	"github.com/japaniel/grammatik/pkg/annotation"
	"github.com/japaniel/grammatik/pkg/taxonomy"
)

// AgreementDetector checks article, adjective and noun agreement in
// three-token noun phrases such as "der alte Mann".
type AgreementDetector struct {
	points
}

// NewAgreementDetector returns an AgreementDetector backed by the catalog.
func NewAgreementDetector(c *taxonomy.Catalog) *AgreementDetector {
	return &AgreementDetector{points{c}}
}

func (d *AgreementDetector) Name() string { return "agreement" }

func (d *AgreementDetector) Category() taxonomy.Category { return taxonomy.CategoryAgreement }

func (d *AgreementDetector) Detect(s annotation.Sentence) []Result {
	var out []Result
	for i := 0; i+2 < len(s.Tokens); i++ {
		art, adj, noun := s.Tokens[i], s.Tokens[i+1], s.Tokens[i+2]
		if !art.Is(annotation.POSDeterminer) || !adj.Is(annotation.POSAdjective) || !noun.Is(annotation.POSNoun) {
			continue
		}
		triple := []annotation.Token{art, adj, noun}
		if !verifiable(triple) {
			continue
		}
		details, correct := agreement(triple)
		// Mismatches stay below the acceptance threshold.
		confidence := 0.60
		if correct {
			confidence = 0.85
		}
		if r, ok := d.result("adjective-agreement", Span(s, i, i+2), confidence, details); ok {
			out = append(out, r)
		}
	}
	return out
}

// verifiable is false when any token carries none of case, gender and number.
func verifiable(triple []annotation.Token) bool {
	for _, t := range triple {
		if !t.HasFeature(annotation.FeatCase) && !t.HasFeature(annotation.FeatGender) && !t.HasFeature(annotation.FeatNumber) {
			return false
		}
	}
	return true
}

// agreement compares the features of the triple. Gender is not required to
// match when any member is plural, since plural forms do not mark gender.
func agreement(triple []annotation.Token) (AgreementDetails, bool) {
	caseOK, caseVal := same(triple, annotation.FeatCase)
	numberOK, numberVal := same(triple, annotation.FeatNumber)
	genderOK, genderVal := same(triple, annotation.FeatGender)
	plural := false
	for _, t := range triple {
		if t.Feature(annotation.FeatNumber) == "Plur" {
			plural = true
		}
	}
	correct := caseOK && numberOK && (plural || genderOK)
	return AgreementDetails{
		Article:   triple[0].Text,
		Adjective: triple[1].Text,
		Noun:      triple[2].Text,
		Case:      caseVal,
		Gender:    genderVal,
		Number:    numberVal,
		Correct:   correct,
	}, correct
}

// same reports whether every token sets the feature to one common value.
func same(tokens []annotation.Token, feature string) (bool, string) {
	v := tokens[0].Feature(feature)
	if v == annotation.Unknown {
		return false, v
	}
	for _, t := range tokens[1:] {
		if t.Feature(feature) != v {
			return false, annotation.Unknown
		}
	}
	return true, v
}
