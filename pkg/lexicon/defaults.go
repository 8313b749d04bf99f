package lexicon

// DefaultEntries is the built-in phrase table. Order matters only for ties
// between phrases of equal length.
var DefaultEntries = []Entry{
	{Phrase: "population", PropertyID: "P1082", Label: "population"},
	{Phrase: "number of inhabitants", PropertyID: "P1082"},
	{Phrase: "capital", PropertyID: "P36", Label: "capital"},
	{Phrase: "capital city", PropertyID: "P36"},
	{Phrase: "official language", PropertyID: "P37", Label: "official language"},
	{Phrase: "official languages", PropertyID: "P37"},
	{Phrase: "language used", PropertyID: "P2936", Label: "language used"},
	{Phrase: "languages spoken", PropertyID: "P2936"},
	{Phrase: "country", PropertyID: "P17", Label: "country"},
	{Phrase: "head of state", PropertyID: "P35", Label: "head of state"},
	{Phrase: "president", PropertyID: "P35"},
	{Phrase: "head of government", PropertyID: "P6", Label: "head of government"},
	{Phrase: "prime minister", PropertyID: "P6"},
	{Phrase: "currency", PropertyID: "P38", Label: "currency"},
	{Phrase: "area", PropertyID: "P2046", Label: "area"},
	{Phrase: "continent", PropertyID: "P30", Label: "continent"},
	{Phrase: "inception", PropertyID: "P571", Label: "inception"},
	{Phrase: "founding date", PropertyID: "P571"},
	{Phrase: "official name", PropertyID: "P1448", Label: "official name"},
	{Phrase: "anthem", PropertyID: "P85", Label: "anthem"},
	{Phrase: "national anthem", PropertyID: "P85"},
	{Phrase: "highest point", PropertyID: "P610", Label: "highest point"},
	{Phrase: "located in", PropertyID: "P131", Label: "located in the administrative territorial entity"},
	{Phrase: "shares border with", PropertyID: "P47", Label: "shares border with"},
	{Phrase: "neighbours", PropertyID: "P47"},
	{Phrase: "neighbors", PropertyID: "P47"},
	{Phrase: "member of", PropertyID: "P463", Label: "member of"},
	{Phrase: "gdp", PropertyID: "P2131", Label: "nominal GDP"},
	{Phrase: "nominal gdp", PropertyID: "P2131"},
	{Phrase: "time zone", PropertyID: "P421", Label: "located in time zone"},
	{Phrase: "motto", PropertyID: "P1451", Label: "motto text"},
	{Phrase: "flag", PropertyID: "P163", Label: "flag"},
	{Phrase: "coat of arms", PropertyID: "P237", Label: "coat of arms"},

	{Phrase: "人口", PropertyID: "P1082"},
	{Phrase: "首都", PropertyID: "P36"},
	{Phrase: "官方语言", PropertyID: "P37"},
	{Phrase: "国家", PropertyID: "P17"},
	{Phrase: "国家元首", PropertyID: "P35"},
	{Phrase: "政府首脑", PropertyID: "P6"},
	{Phrase: "货币", PropertyID: "P38"},
	{Phrase: "面积", PropertyID: "P2046"},
	{Phrase: "大洲", PropertyID: "P30"},
}

var defaultLexicon = MustNew(DefaultEntries)

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return defaultLexicon
}

// WithDefaults compiles DefaultEntries followed by extra. Extra phrases that
// collide with a built-in phrase under a different property fail with
// ErrAmbiguousPhrase.
func WithDefaults(extra []Entry) (*Lexicon, error) {
	entries := make([]Entry, 0, len(DefaultEntries)+len(extra))
	entries = append(entries, DefaultEntries...)
	entries = append(entries, extra...)
	return New(entries)
}
