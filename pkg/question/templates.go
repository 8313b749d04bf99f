package question

// DefaultPatterns are the built-in templates in priority order.
var DefaultPatterns = []struct{ Name, Pattern string }{
	{"what-is-the", "what is the {attribute} of {subject}"},
	{"whats-the", "what's the {attribute} of {subject}"},
	{"what-are-the", "what are the {attribute} of {subject}"},
	{"who-is-the", "who is the {attribute} of {subject}"},
	{"which-is-the", "which is the {attribute} of {subject}"},
	{"tell-me-the", "tell me the {attribute} of {subject}"},
	{"possessive", "what is {subject}'s {attribute}"},
	{"zh-what", "{subject}的{attribute}是什么"},
	{"zh-is", "{subject}的{attribute}是"},
	{"bare-of", "{attribute} of {subject}"},
}

var defaultParser = func() *Parser {
	templates := make([]Template, 0, len(DefaultPatterns))
	for _, p := range DefaultPatterns {
		templates = append(templates, MustCompile(p.Name, p.Pattern))
	}
	return New(templates)
}()

// Default returns a parser over DefaultPatterns.
func Default() *Parser {
	return defaultParser
}
