// Package taxonomy holds the static catalog of grammar points: what each one
// is called, which CEFR level it belongs to and how it is explained.
package taxonomy

import (
	_ "embed"
	"os"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownGrammarPoint is returned by Lookup for ids not in the catalog.
var ErrUnknownGrammarPoint = errors.New("unknown grammar point")

// Level is a CEFR proficiency level.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
	C2 Level = "C2"
)

// Levels lists all CEFR levels in ascending order.
var Levels = []Level{A1, A2, B1, B2, C1, C2}

// Valid reports whether l is one of the six CEFR levels.
func (l Level) Valid() bool {
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

// Category groups grammar points by phenomenon.
type Category string

const (
	CategoryTense         Category = "tense"
	CategoryCase          Category = "case"
	CategoryVoice         Category = "voice"
	CategoryMood          Category = "mood"
	CategoryAgreement     Category = "agreement"
	CategoryArticle       Category = "article"
	CategoryAdjective     Category = "adjective"
	CategoryPronoun       Category = "pronoun"
	CategoryPreposition   Category = "preposition"
	CategoryConjunction   Category = "conjunction"
	CategoryVerbForm      Category = "verb-form"
	CategoryWordOrder     Category = "word-order"
	CategorySeparableVerb Category = "separable-verb"
	CategoryModalVerb     Category = "modal-verb"
	CategoryReflexiveVerb Category = "reflexive-verb"
	CategoryPassive       Category = "passive"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryTense, CategoryCase, CategoryVoice, CategoryMood, CategoryAgreement,
	CategoryArticle, CategoryAdjective, CategoryPronoun, CategoryPreposition,
	CategoryConjunction, CategoryVerbForm, CategoryWordOrder, CategorySeparableVerb,
	CategoryModalVerb, CategoryReflexiveVerb, CategoryPassive,
}

// Known reports whether c is in Categories.
func (c Category) Known() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// GrammarPoint describes one entry of the catalog.
type GrammarPoint struct {
	ID          string   `yaml:"id" json:"id"`
	Category    Category `yaml:"category" json:"category"`
	Level       Level    `yaml:"level" json:"level"`
	Name        string   `yaml:"name" json:"name"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	Examples    []string `yaml:"examples" json:"examples,omitempty"`
	// ContextVariants holds alternative explanations keyed by a context value
	// reported by a detector (e.g. the kind of dative).
	ContextVariants map[string]string `yaml:"contextVariants" json:"contextVariants,omitempty"`
}

// Catalog is an immutable, indexed set of grammar points.
type Catalog struct {
	points     []GrammarPoint
	byID       map[string]int
	byLevel    map[Level][]int
	byCategory map[Category][]int
}

type catalogFile struct {
	GrammarPoints []GrammarPoint `yaml:"grammarPoints"`
}

//go:embed catalog.yaml
var embeddedCatalog []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// invalid, which can only happen through a broken build.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedCatalog)
		if err != nil {
			panic(errors.Wrap(err, "embedded grammar catalog"))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse catalog %s", path)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode catalog yaml")
	}
	return New(f.GrammarPoints)
}

// New builds a catalog, rejecting duplicate ids, unknown levels and unknown categories.
func New(points []GrammarPoint) (*Catalog, error) {
	c := &Catalog{
		points:     make([]GrammarPoint, 0, len(points)),
		byID:       make(map[string]int, len(points)),
		byLevel:    make(map[Level][]int),
		byCategory: make(map[Category][]int),
	}
	for _, p := range points {
		if p.ID == "" {
			return nil, errors.Newf("grammar point %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Newf("duplicate grammar point id %q", p.ID)
		}
		if !p.Level.Valid() {
			return nil, errors.Newf("grammar point %q: invalid level %q", p.ID, p.Level)
		}
		if !p.Category.Known() {
			return nil, errors.Newf("grammar point %q: unknown category %q", p.ID, p.Category)
		}
		i := len(c.points)
		c.points = append(c.points, p)
		c.byID[p.ID] = i
		c.byLevel[p.Level] = append(c.byLevel[p.Level], i)
		c.byCategory[p.Category] = append(c.byCategory[p.Category], i)
	}
	return c, nil
}

// Get returns a copy of the grammar point with the given id.
func (c *Catalog) Get(id string) (GrammarPoint, bool) {
	i, ok := c.byID[id]
	if !ok {
		return GrammarPoint{}, false
	}
	return c.points[i].clone(), true
}

// Lookup is Get with an error for missing ids.
func (c *Catalog) Lookup(id string) (GrammarPoint, error) {
	gp, ok := c.Get(id)
	if !ok {
		return GrammarPoint{}, errors.Wrapf(ErrUnknownGrammarPoint, "%q", id)
	}
	return gp, nil
}

// All returns every grammar point in catalog order.
func (c *Catalog) All() []GrammarPoint {
	out := make([]GrammarPoint, len(c.points))
	for i, p := range c.points {
		out[i] = p.clone()
	}
	return out
}

// ByLevel returns the grammar points of one level in catalog order.
func (c *Catalog) ByLevel(l Level) []GrammarPoint {
	return c.collect(c.byLevel[l])
}

// ByCategory returns the grammar points of one category in catalog order.
func (c *Catalog) ByCategory(cat Category) []GrammarPoint {
	return c.collect(c.byCategory[cat])
}

// IDs returns all ids sorted alphabetically.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of grammar points.
func (c *Catalog) Len() int { return len(c.points) }

func (c *Catalog) collect(idx []int) []GrammarPoint {
	out := make([]GrammarPoint, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.points[i].clone())
	}
	return out
}

func (p GrammarPoint) clone() GrammarPoint {
	if p.Examples != nil {
		p.Examples = append([]string(nil), p.Examples...)
	}
	if p.ContextVariants != nil {
		cv := make(map[string]string, len(p.ContextVariants))
		for k, v := range p.ContextVariants {
			cv[k] = v
		}
		p.ContextVariants = cv
	}
	return p
}
