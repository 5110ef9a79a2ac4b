package detect

// Details is the detector-specific evidence attached to a Result. Each
// detector family has its own concrete type; GenericDetails is reserved for
// sources whose shape is not known in advance.
type Details interface {
	Kind() string
}

// Dative contexts reported by the case detector.
const (
	DativeTemporal       = "temporal"
	DativeIndirectObject = "indirect-object"
	DativePrepositional  = "prepositional"
)

// CaseDetails is produced by the case detector.
type CaseDetails struct {
	Case  string `json:"case"`
	Token string `json:"token"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	// DativeContext is one of the Dative* constants, set for dative only.
	DativeContext string `json:"dativeContext,omitempty"`
	// Trigger is the preposition or verb that explains the dative.
	Trigger           string  `json:"trigger,omitempty"`
	ContextConfidence float64 `json:"contextConfidence,omitempty"`
}

func (CaseDetails) Kind() string { return "case" }

// TenseDetails is produced by the tense detectors.
type TenseDetails struct {
	Tense      string `json:"tense"`
	Verb       string `json:"verb"`
	Auxiliary  string `json:"auxiliary,omitempty"`
	Participle string `json:"participle,omitempty"`
	Infinitive string `json:"infinitive,omitempty"`
}

func (TenseDetails) Kind() string { return "tense" }

// PassiveDetails is produced by the passive detectors.
type PassiveDetails struct {
	// PassiveType is "present", "past", "subjunctive", "statal" or "unknown".
	PassiveType      string `json:"passiveType"`
	Auxiliary        string `json:"auxiliary"`
	Participle       string `json:"participle"`
	AgentPreposition string `json:"agentPreposition,omitempty"`
	Agent            string `json:"agent,omitempty"`
}

func (PassiveDetails) Kind() string { return "passive" }

// ModalDetails is produced by the modal verb detector.
type ModalDetails struct {
	ModalVerb  string `json:"modalVerb"`
	Lemma      string `json:"lemma"`
	Infinitive string `json:"infinitive,omitempty"`
	// Direction is "forward", "backward" or empty for a standalone modal.
	Direction  string `json:"direction,omitempty"`
	Standalone bool   `json:"standalone,omitempty"`
}

func (ModalDetails) Kind() string { return "modal" }

// AgreementDetails is produced by the agreement detector.
type AgreementDetails struct {
	Article   string `json:"article"`
	Adjective string `json:"adjective"`
	Noun      string `json:"noun"`
	Case      string `json:"case"`
	Gender    string `json:"gender"`
	Number    string `json:"number"`
	Correct   bool   `json:"correct"`
}

func (AgreementDetails) Kind() string { return "agreement" }

// ClauseDetails is produced by the subordinate clause detector.
type ClauseDetails struct {
	Conjunction string `json:"conjunction"`
	ClauseType  string `json:"clauseType"`
	FinalVerb   string `json:"finalVerb"`
}

func (ClauseDetails) Kind() string { return "clause" }

// WordOrderDetails is produced by the verb-second detector.
type WordOrderDetails struct {
	Verb       string `json:"verb"`
	Position   int    `json:"position"`
	Fronted    string `json:"fronted"`
	FrontedPOS string `json:"frontedPos"`
}

func (WordOrderDetails) Kind() string { return "word-order" }

// FunctionalVerbDetails is produced by the functional verb detector.
type FunctionalVerbDetails struct {
	Construction string `json:"construction"`
	Verb         string `json:"verb"`
	Preposition  string `json:"preposition,omitempty"`
	Noun         string `json:"noun"`
	Meaning      string `json:"meaning"`
}

func (FunctionalVerbDetails) Kind() string { return "functional-verb" }

// SeparableDetails is produced by the separable verb detector.
type SeparableDetails struct {
	Verb       string `json:"verb"`
	Prefix     string `json:"prefix"`
	Infinitive string `json:"infinitive"`
}

func (SeparableDetails) Kind() string { return "separable-verb" }

// ReflexiveDetails is produced by the reflexive verb detector.
type ReflexiveDetails struct {
	Verb    string `json:"verb"`
	Pronoun string `json:"pronoun"`
}

func (ReflexiveDetails) Kind() string { return "reflexive-verb" }

// MoodDetails is produced by the subjunctive detector.
type MoodDetails struct {
	// Mood is "subjunctive2" or "conditional".
	Mood       string `json:"mood"`
	Verb       string `json:"verb"`
	Infinitive string `json:"infinitive,omitempty"`
}

func (MoodDetails) Kind() string { return "mood" }

// ArticleDetails is produced by the article detector.
type ArticleDetails struct {
	Article      string `json:"article"`
	Definiteness string `json:"definiteness"`
	Case         string `json:"case,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Number       string `json:"number,omitempty"`
}

func (ArticleDetails) Kind() string { return "article" }

// PrepositionDetails is produced by the preposition detector.
type PrepositionDetails struct {
	Preposition string `json:"preposition"`
	// Governs is "dative", "accusative", "genitive" or, for two-way
	// prepositions, the case read from the object when known.
	Governs string `json:"governs"`
	Object  string `json:"object,omitempty"`
}

func (PrepositionDetails) Kind() string { return "preposition" }

// GenericDetails carries free-form evidence, used for the AI fallback.
type GenericDetails map[string]any

func (GenericDetails) Kind() string { return "generic" }
