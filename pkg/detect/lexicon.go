package detect

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var (
	dativePrepositions = set(
		"aus", "außer", "bei", "mit", "nach", "seit", "von", "zu", "gegenüber", "ab",
		// contracted preposition + article
		"am", "im", "zum", "zur", "beim", "vom",
	)

	accusativePrepositions = set("durch", "für", "gegen", "ohne", "um", "ums", "bis", "entlang", "durchs", "fürs")

	twoWayPrepositions = set(
		"an", "auf", "hinter", "in", "neben", "über", "unter", "vor", "zwischen",
		"am", "im", "ans", "ins", "aufs",
	)

	genitivePrepositions = set("wegen", "trotz", "während", "statt", "anstatt", "innerhalb", "außerhalb", "aufgrund")

	// contractedPrepositions already contain the article.
	contractedPrepositions = set("am", "im", "ans", "ins", "aufs", "zum", "zur", "beim", "vom", "ums")

	// dativeVerbs take a dative object.
	dativeVerbs = set(
		"geben", "helfen", "danken", "gefallen", "gehören", "antworten", "folgen",
		"glauben", "schenken", "zeigen", "bringen", "schicken", "erklären", "sagen",
		"empfehlen", "gratulieren", "vertrauen", "passen", "schmecken", "fehlen",
		"leihen", "erzählen", "wünschen", "schreiben", "verzeihen", "begegnen",
	)

	temporalNouns = set(
		"montag", "dienstag", "mittwoch", "donnerstag", "freitag", "samstag", "sonntag", "sonnabend",
		"januar", "februar", "märz", "april", "mai", "juni", "juli", "august",
		"september", "oktober", "november", "dezember",
		"frühling", "frühjahr", "sommer", "herbst", "winter",
		"morgen", "vormittag", "mittag", "nachmittag", "abend", "nacht",
		"tag", "woche", "wochenende", "monat", "jahr", "jahrhundert", "moment", "augenblick",
	)

	modalLemmas = set("können", "müssen", "dürfen", "sollen", "wollen", "mögen", "möchten")

	modalForms = set(
		"kann", "kannst", "können", "könnt", "konnte", "konntest", "konnten", "konntet",
		"könnte", "könntest", "könnten", "könntet",
		"muss", "musst", "müssen", "müsst", "musste", "musstest", "mussten", "musstet",
		"müsste", "müsstest", "müssten", "müsstet",
		"darf", "darfst", "dürfen", "dürft", "durfte", "durftest", "durften", "durftet",
		"dürfte", "dürftest", "dürften", "dürftet",
		"soll", "sollst", "sollen", "sollt", "sollte", "solltest", "sollten", "solltet",
		"will", "willst", "wollen", "wollt", "wollte", "wolltest", "wollten", "wolltet",
		"mag", "magst", "mögen", "mögt", "mochte", "mochtest", "mochten", "mochtet",
		"möchte", "möchtest", "möchten", "möchtet",
	)

	werdenPresent = set("werde", "wirst", "wird", "werden", "werdet")
	werdenPast    = set("wurde", "wurdest", "wurden", "wurdet", "ward")
	wuerdeForms   = set("würde", "würdest", "würden", "würdet")

	habenPresent = set("habe", "hast", "hat", "haben", "habt")
	habenPast    = set("hatte", "hattest", "hatten", "hattet")
	seinPresent  = set("bin", "bist", "ist", "sind", "seid")
	seinPast     = set("war", "warst", "waren", "wart")

	// seinPerfectVerbs form the perfect with "sein"; with other verbs
	// sein + participle is a statal passive.
	seinPerfectVerbs = set(
		"gehen", "kommen", "fahren", "fliegen", "laufen", "rennen", "bleiben", "sein", "werden",
		"passieren", "geschehen", "sterben", "wachsen", "reisen", "steigen", "fallen",
		"schwimmen", "springen", "wandern", "folgen", "begegnen", "gelingen", "misslingen",
		"ankommen", "abfahren", "aufstehen", "einschlafen", "aufwachen", "umziehen",
		"einsteigen", "aussteigen", "zurückkommen", "losfahren", "verschwinden", "entstehen",
		"aufwachsen", "erscheinen", "gelangen", "geraten",
	)

	// subjunctiveIIForms are frequent Konjunktiv II forms recognised even when
	// the annotator left Mood unset.
	subjunctiveIIForms = set(
		"hätte", "hättest", "hätten", "hättet",
		"wäre", "wärst", "wärest", "wären", "wärt", "wäret",
		"könnte", "könntest", "könnten", "könntet",
		"müsste", "müsstest", "müssten", "müsstet",
		"dürfte", "dürftest", "dürften", "dürftet",
		"möchte", "möchtest", "möchten", "möchtet",
		"käme", "kämest", "kämen", "ginge", "gingen", "gäbe", "gäben", "wüsste", "wüssten",
	)

	relativeClauseDeps = set("acl", "acl:relcl", "rc", "relcl")

	clauseTypes = map[string]string{
		"weil": "causal", "da": "causal",
		"wenn": "conditional", "falls": "conditional", "sofern": "conditional",
		"als": "temporal", "während": "temporal", "nachdem": "temporal", "bevor": "temporal",
		"ehe": "temporal", "seitdem": "temporal", "seit": "temporal", "bis": "temporal",
		"sobald": "temporal", "solange": "temporal",
		"obwohl": "concessive", "obgleich": "concessive", "obschon": "concessive", "wenngleich": "concessive",
		"damit": "purpose", "um": "purpose",
		"dass": "completive",
		"ob": "interrogative",
	}
)
