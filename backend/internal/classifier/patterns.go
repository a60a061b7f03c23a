package classifier

import (
	"fmt"
	"regexp"
	"strings"
)

// tierPattern pairs a compiled pattern with its source form. The source is
// what gets reported in MatchedPatterns; the compiled form may differ (see
// rewriteBoundaries).
type tierPattern struct {
	source string
	re     *regexp.Regexp
}

// PatternTable holds the compiled phrase patterns for each intent tier.
// Tables are immutable after construction and safe for concurrent use.
type PatternTable struct {
	Crisis      []tierPattern
	Greeting    []tierPattern
	Support     []tierPattern
	Information []tierPattern
}

// Built-in Spanish phrase lists. Matching happens over normalized,
// lowercased text, so the patterns themselves stay lowercase.
var (
	defaultCrisisPatterns = []string{
		`\b(suicid|matarme|quitarme la vida|no quiero vivir)\b`,
		`\b(acabar con todo|terminar con esto)\b`,
		`\b(autolesion|cortar|hacerme daño)\b`,
		`\b(no puedo más|no aguanto más)\b`,
		`\b(quiero morir|deseo morir)\b`,
		`\b(sin salida|no hay esperanza)\b`,
	}

	defaultSupportPatterns = []string{
		`\b(me siento|siento que)\b`,
		`\b(triste|deprimid|ansios|sol[oa]|vacío)\b`,
		`\b(no sé qué hacer|necesito ayuda|ayúdame)\b`,
		`\b(miedo|preocupad|estresad|agobiad)\b`,
		`\b(nadie me entiende|nadie me quiere)\b`,
		`\b(problemas|dificultades|no puedo)\b`,
	}

	defaultGreetingPatterns = []string{
		`^(hola|hey|buenas|saludos|qué tal|cómo estás)`,
		`^(buenos días|buenas tardes|buenas noches)`,
		`^(hi|hello)\b`,
	}

	defaultInfoPatterns = []string{
		`\b(qué es|cómo funciona|explica|dime sobre)\b`,
		`\b(información|info|datos)\b`,
		`^(qué|cómo|cuándo|dónde|por qué)\b`,
	}
)

// DefaultPatternTable compiles the built-in Spanish phrase lists.
func DefaultPatternTable() *PatternTable {
	table, err := CompileTable(PatternSpec{
		Crisis:      defaultCrisisPatterns,
		Greeting:    defaultGreetingPatterns,
		Support:     defaultSupportPatterns,
		Information: defaultInfoPatterns,
	})
	if err != nil {
		// Built-in patterns are covered by tests; a compile failure here is
		// a programming error.
		panic(err)
	}
	return table
}

// PatternSpec is the serializable form of a pattern table.
type PatternSpec struct {
	Version     string   `yaml:"version"`
	Crisis      []string `yaml:"crisis"`
	Greeting    []string `yaml:"greeting"`
	Support     []string `yaml:"support"`
	Information []string `yaml:"information"`
}

// CompileTable compiles a pattern spec into a table. Tiers left empty in the
// spec inherit the built-in list, so a pattern file can override a single
// tier without restating the rest.
func CompileTable(spec PatternSpec) (*PatternTable, error) {
	crisis, err := compileTier("crisis", spec.Crisis, defaultCrisisPatterns)
	if err != nil {
		return nil, err
	}
	greeting, err := compileTier("greeting", spec.Greeting, defaultGreetingPatterns)
	if err != nil {
		return nil, err
	}
	support, err := compileTier("support", spec.Support, defaultSupportPatterns)
	if err != nil {
		return nil, err
	}
	information, err := compileTier("information", spec.Information, defaultInfoPatterns)
	if err != nil {
		return nil, err
	}

	return &PatternTable{
		Crisis:      crisis,
		Greeting:    greeting,
		Support:     support,
		Information: information,
	}, nil
}

func compileTier(name string, patterns, fallback []string) ([]tierPattern, error) {
	if len(patterns) == 0 {
		patterns = fallback
	}

	compiled := make([]tierPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + rewriteBoundaries(p))
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", name, p, err)
		}
		compiled = append(compiled, tierPattern{source: p, re: re})
	}
	return compiled, nil
}

// Go's regexp engine treats \b as an ASCII word boundary, which misfires on
// accented Spanish text: "qué " has no boundary after the é, and "cortaré"
// has one before it. Leading and trailing \b are rewritten at compile time
// into explicit Unicode-aware constructs.
const (
	boundaryBefore = `(?:^|[^\p{L}\p{N}_])`
	boundaryAfter  = `(?:[^\p{L}\p{N}_]|$)`
)

func rewriteBoundaries(p string) string {
	if strings.HasPrefix(p, `\b`) {
		p = boundaryBefore + p[2:]
	}
	if strings.HasSuffix(p, `\b`) {
		p = p[:len(p)-2] + boundaryAfter
	}
	return p
}

// matchPatterns counts pattern hits against text and returns the source
// patterns that fired, in evaluation order.
func matchPatterns(patterns []tierPattern, text string) (int, []string) {
	var matched []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			matched = append(matched, p.source)
		}
	}
	return len(matched), matched
}
