// Package parser turns raw player input into a structured ParsedCommand.
// It is a deliberately small rule-based grammar, not natural language
// understanding: verb, noun phrase, optional prepositional target. The
// engine consumes its output and never depends on how it was produced.
package parser

import (
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/suderio/fable/internal/engine"
)

// Lexer tokenizes free-form input. Prepositions get their own token class
// so the grammar can split the noun phrase from the target phrase.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prep", Pattern: `(?i)\b(?:with|on|at|into|onto|using)\b`},
	{Name: "Word", Pattern: `[a-zA-Z'][a-zA-Z'_-]*`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Command is the raw grammar shape: a verb word, a noun phrase, and an
// optional preposition-introduced target phrase.
type Command struct {
	Verb   string      `parser:"@Word"`
	Object []string    `parser:"@Word*"`
	Target *TargetExpr `parser:"@@?"`
}

// TargetExpr captures "with the brass key" style suffixes.
type TargetExpr struct {
	Prep  string   `parser:"@Prep"`
	Words []string `parser:"@Word+"`
}

// Build creates the participle parser from the struct tags above.
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
}

// verbSynonyms maps common phrasings onto the canonical handler verbs.
var verbSynonyms = map[string]string{
	"move": "go", "walk": "go", "head": "go", "run": "go",
	"get": "take", "grab": "take", "pick": "take",
	"x": "examine", "inspect": "examine", "read": "examine",
	"i": "inventory", "inv": "inventory",
	"l": "look",
	"unlock": "open",
	"shut": "close",
}

// bareDirections lets a lone direction word act as a go command.
var bareDirections = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
	"n": true, "s": true, "e": true, "w": true,
	"ne": true, "nw": true, "se": true, "sw": true,
	"up": true, "down": true, "u": true, "d": true,
	"in": true, "out": true,
}

// articles are dropped from noun phrases.
var articles = map[string]bool{"the": true, "a": true, "an": true, "some": true}

// Parser wraps the grammar with normalization to engine.ParsedCommand.
type Parser struct {
	grammar *participle.Parser[Command]
}

// New builds the command parser.
func New() *Parser {
	return &Parser{grammar: Build()}
}

// Parse converts one line of input into a ParsedCommand. Unparseable input
// degrades to a bare command carrying the raw text with zero confidence so
// the router can produce its canonical rejection.
func (p *Parser) Parse(input string) engine.ParsedCommand {
	raw := strings.TrimSpace(input)
	cmd := engine.ParsedCommand{Raw: raw, At: time.Now()}
	if raw == "" {
		return cmd
	}

	ast, err := p.grammar.ParseString("", raw)
	if err != nil {
		cmd.Verb = strings.ToLower(strings.Fields(raw)[0])
		cmd.Confidence = 0
		return cmd
	}

	verb := strings.ToLower(ast.Verb)
	if canonical, ok := verbSynonyms[verb]; ok {
		verb = canonical
	}

	object := joinPhrase(ast.Object)
	if bareDirections[verb] && object == "" {
		// A lone direction is shorthand for going that way.
		object = verb
		verb = "go"
	}

	cmd.Verb = verb
	cmd.Object = object
	if ast.Target != nil {
		cmd.Target = joinPhrase(ast.Target.Words)
		cmd.Context = strings.ToLower(ast.Target.Prep)
	}
	cmd.Confidence = 1.0
	return cmd
}

// joinPhrase lowercases a word list and strips articles.
func joinPhrase(words []string) string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		lw := strings.ToLower(w)
		if articles[lw] {
			continue
		}
		kept = append(kept, lw)
	}
	return strings.Join(kept, " ")
}
