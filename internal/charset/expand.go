package charset

import (
	"strings"

	"github.com/simonhull/firebird-suite/passgen/internal/alphabet"
	"github.com/simonhull/firebird-suite/passgen/internal/logger"
	"github.com/simonhull/firebird-suite/passgen/internal/random"
)

const (
	// Alternation separates two alternative specs; one is chosen at random.
	Alternation = '|'
	// Exclusion separates a spec from characters removed from the base sets.
	Exclusion = '^'
	// Escape makes the following character a literal.
	Escape = '\\'
)

// Expander turns set specifications into candidate pools.
type Expander struct {
	Registry alphabet.Registry
	Source   random.Source
	Logger   logger.Logger
}

// token is one unit of a set spec: a registry code or an escaped literal
type token struct {
	char    rune
	literal bool
}

// Expand returns the pool described by spec together with the registry in
// effect afterwards. The registry differs from e.Registry only when spec
// contains an exclusion.
func (e Expander) Expand(spec string) (Pool, alphabet.Registry) {
	log := e.logger()
	reg := e.Registry
	log.Debug("expanding set", logger.F("spec", spec))

	if left, right, ok := strings.Cut(spec, string(Alternation)); ok {
		spec = random.Choice(e.source(), []string{left, right})
		log.Debug("alternative selected", logger.F("spec", spec))
	}

	if kept, excluded, ok := strings.Cut(spec, string(Exclusion)); ok {
		log.Debug("symbols excluded from base sets", logger.F("excluded", excluded))
		reg = reg.Exclude(excluded)
		spec = kept
	}

	var pool Pool
	for _, tok := range dedupe(tokenize(spec)) {
		if tok.literal {
			log.Debug("adding literal character to set, custom characters can reduce password strength",
				logger.F("char", string(tok.char)))
			pool = append(pool, tok.char)
			continue
		}
		if chars, ok := reg.Lookup(tok.char); ok {
			pool = append(pool, []rune(chars)...)
		}
	}

	log.Debug("final set", logger.F("size", len(pool)))
	return pool, reg
}

func (e Expander) logger() logger.Logger {
	if e.Logger == nil {
		return logger.Default()
	}
	return e.Logger
}

func (e Expander) source() random.Source {
	if e.Source == nil {
		return random.New()
	}
	return e.Source
}

// tokenize splits spec into codes and escaped literals.
// A trailing lone escape is dropped.
func tokenize(spec string) []token {
	var (
		tokens  []token
		escaped bool
	)
	for _, r := range spec {
		switch {
		case escaped:
			tokens = append(tokens, token{char: r, literal: true})
			escaped = false
		case r == Escape:
			escaped = true
		default:
			tokens = append(tokens, token{char: r})
		}
	}
	return tokens
}

// dedupe keeps the first occurrence of every token
func dedupe(tokens []token) []token {
	seen := make(map[token]bool, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
