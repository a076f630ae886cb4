// Package generator assembles passwords from a length, a set specification
// or a template.
package generator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/simonhull/firebird-suite/passgen/internal/alphabet"
	"github.com/simonhull/firebird-suite/passgen/internal/charset"
	"github.com/simonhull/firebird-suite/passgen/internal/logger"
	"github.com/simonhull/firebird-suite/passgen/internal/pattern"
	"github.com/simonhull/firebird-suite/passgen/internal/random"
)

// DefaultLength is used when a request carries no length.
const DefaultLength = 9

// Request describes one password. Empty fields are absent.
type Request struct {
	Length   int
	Template string
	Set      string
}

// Mode names the input mode a request resolves to
func (r Request) Mode() string {
	switch {
	case r.Template != "":
		return "template"
	case r.Set != "":
		return "set"
	default:
		return "length"
	}
}

// Generator produces passwords. It is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	registry alphabet.Registry

	source     random.Source
	log        logger.Logger
	remainder  pattern.RemainderMode
	unresolved pattern.UnresolvedPolicy
	persist    bool
}

// Option configures a Generator
type Option func(*Generator)

// WithRegistry replaces the built-in alphabet registry
func WithRegistry(reg alphabet.Registry) Option {
	return func(g *Generator) { g.registry = reg }
}

// WithSource sets the random source
func WithSource(src random.Source) Option {
	return func(g *Generator) { g.source = src }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithRemainder selects how templates compute the literal-pass remainder
func WithRemainder(mode pattern.RemainderMode) Option {
	return func(g *Generator) { g.remainder = mode }
}

// WithUnresolvedPolicy selects how templates treat undefined characters
func WithUnresolvedPolicy(policy pattern.UnresolvedPolicy) Option {
	return func(g *Generator) { g.unresolved = policy }
}

// WithPersistentExclusions makes an exclusion seen in one call apply to
// every later call on the same Generator.
func WithPersistentExclusions(persist bool) Option {
	return func(g *Generator) { g.persist = persist }
}

// New creates a generator with the built-in registry and a crypto-fed
// random source.
func New(opts ...Option) *Generator {
	g := &Generator{
		registry: alphabet.Default(),
		source:   random.New(),
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry returns the registry the next call starts from
func (g *Generator) Registry() alphabet.Registry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registry
}

// Generate produces one password.
//
// A template takes priority over a set; with neither, Length characters
// are drawn from alphabet.DefaultPassword. When both are given the set is
// never expanded, so a '^' in it does not touch the registry the template
// renders against.
func (g *Generator) Generate(req Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if req.Length <= 0 && req.Template == "" {
		g.log.Warn("length is not provided, using default", logger.F("length", DefaultLength))
		req.Length = DefaultLength
	}

	log := g.log.WithFields(logger.F("mode", req.Mode()))
	reg := g.registry

	var (
		password string
		err      error
	)

	switch {
	case req.Template != "":
		var res pattern.Result
		res, err = pattern.Renderer{
			Registry:     reg,
			Source:       g.source,
			Logger:       log,
			Remainder:    g.remainder,
			OnUnresolved: g.unresolved,
		}.Render(req.Template)
		password, reg = res.Password, res.Registry
		if len(res.Unresolved) > 0 {
			log.Info("unresolved characters in template", logger.F("count", len(res.Unresolved)))
		}

	case req.Set != "":
		var pool charset.Pool
		pool, reg = charset.Expander{Registry: reg, Source: g.source, Logger: log}.Expand(req.Set)
		password, err = pool.Sample(g.source, req.Length)

	default:
		log.Debug("using default set", logger.F("set", alphabet.DefaultPassword))
		password, err = charset.Pool(alphabet.DefaultPassword).Sample(g.source, req.Length)
	}

	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	if g.persist && reg.Excluded() {
		g.registry = reg
	}

	log.Info("generated password",
		logger.F("password", logger.Masked(password)),
		logger.F("length", len([]rune(password))))
	return password, nil
}

// Batch produces count passwords. A failed call is logged and skipped; the
// passwords that succeeded are returned together with the joined errors.
func (g *Generator) Batch(req Request, count int) ([]string, error) {
	passwords := make([]string, 0, count)
	var errs []error

	for i := 0; i < count; i++ {
		password, err := g.Generate(req)
		if err != nil {
			g.log.Error("password generation failed", logger.F("index", i), logger.F("error", err))
			errs = append(errs, fmt.Errorf("password %d: %w", i+1, err))
			continue
		}
		passwords = append(passwords, password)
	}

	return passwords, errors.Join(errs...)
}
