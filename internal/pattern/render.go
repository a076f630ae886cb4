package pattern

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/simonhull/firebird-suite/passgen/internal/alphabet"
	"github.com/simonhull/firebird-suite/passgen/internal/charset"
	"github.com/simonhull/firebird-suite/passgen/internal/logger"
	"github.com/simonhull/firebird-suite/passgen/internal/random"
)

// MaxRepeat caps the count of a single {n} marker.
const MaxRepeat = 4096

var (
	customSetPattern = regexp.MustCompile(`\[(.*?)\]`)
	repeatPattern    = regexp.MustCompile(`\{(\d+)\}`)
)

// Renderer interprets templates. The zero value renders with an empty
// registry; use alphabet.Default() for the built-in codes.
type Renderer struct {
	Registry     alphabet.Registry
	Source       random.Source
	Logger       logger.Logger
	Remainder    RemainderMode
	OnUnresolved UnresolvedPolicy
}

// Unresolved records a character the literal pass could not resolve.
// Position is the character's rune offset within the template.
type Unresolved struct {
	Char     rune
	Position int
}

// Result is the outcome of one Render call.
type Result struct {
	Password string
	// Registry is the registry in effect after rendering; it differs from
	// the renderer's when a custom set used the exclusion operator.
	Registry   alphabet.Registry
	Unresolved []Unresolved
}

// span is a half-open byte range of the template
type span struct{ start, end int }

// render holds the state of one Render call
type render struct {
	Renderer
	reg    alphabet.Registry
	out    strings.Builder
	result Result
	// offsets maps each rune of the remainder to its template offset;
	// nil means the remainder is the template itself.
	offsets []int
}

// Render produces a password from tmpl.
//
// The first {n} marker is expanded before anything else; when the template
// has no marker, every [...] block is substituted instead. Whatever is left
// is read left to right as codes and escaped literals.
func (r Renderer) Render(tmpl string) (Result, error) {
	if r.Logger == nil {
		r.Logger = logger.Default()
	}
	if r.Source == nil {
		r.Source = random.New()
	}

	st := &render{Renderer: r, reg: r.Registry}
	r.Logger.Debug("rendering template", logger.F("mode", r.Remainder))

	remainder, found, err := st.expandRepeat(tmpl)
	if err != nil {
		return Result{}, err
	}
	if !found {
		remainder, err = st.substituteSets(tmpl)
		if err != nil {
			return Result{}, err
		}
	}

	if err := st.literalPass(remainder); err != nil {
		return Result{}, err
	}

	st.result.Password = st.out.String()
	st.result.Registry = st.reg
	return st.result, nil
}

// expandRepeat handles the first {n} marker and reports whether there
// was one.
func (st *render) expandRepeat(tmpl string) (string, bool, error) {
	loc := repeatPattern.FindStringSubmatchIndex(tmpl)
	if loc == nil {
		return tmpl, false, nil
	}

	n := st.repeatCount(tmpl[loc[2]:loc[3]])
	marker := span{loc[0], loc[1]}

	var (
		produced string
		consumed []span
	)

	if blocks := customSetPattern.FindAllStringSubmatchIndex(tmpl, -1); len(blocks) > 0 {
		// Every block in the template feeds one combined pool
		var spec strings.Builder
		for _, b := range blocks {
			spec.WriteString(tmpl[b[2]:b[3]])
			consumed = append(consumed, span{b[0], b[1]})
		}

		sampled, err := st.sample(spec.String(), n)
		if err != nil {
			return "", true, err
		}
		produced = sampled
		st.Logger.Debug("repeated custom set", logger.F("spec", spec.String()), logger.F("count", n))
	} else {
		prev, start, ok := precedingChar(tmpl, marker.start)
		if ok {
			produced = strings.Repeat(string(prev), n)
			consumed = append(consumed, span{start, marker.start})
			st.Logger.Debug("repeated character", logger.F("char", string(prev)), logger.F("count", n))
		} else {
			st.Logger.Warn("repeat marker has no preceding character", logger.F("marker", tmpl[marker.start:marker.end]))
		}
	}

	consumed = append(consumed, marker)
	st.out.WriteString(produced)

	return st.remainder(tmpl, produced, consumed), true, nil
}

// substituteSets replaces every [...] block with characters sampled from
// its own pool, one per character of the block's spec.
func (st *render) substituteSets(tmpl string) (string, error) {
	blocks := customSetPattern.FindAllStringSubmatchIndex(tmpl, -1)
	if len(blocks) == 0 {
		return tmpl, nil
	}

	var (
		sampledOnly strings.Builder
		substituted strings.Builder
		consumed    []span
		last        int
	)
	for _, b := range blocks {
		spec := tmpl[b[2]:b[3]]
		sampled, err := st.sample(spec, utf8.RuneCountInString(spec))
		if err != nil {
			return "", err
		}
		st.Logger.Warn("custom sets can reduce password strength", logger.F("spec", spec))

		sampledOnly.WriteString(sampled)
		substituted.WriteString(tmpl[last:b[0]])
		substituted.WriteString(sampled)
		last = b[1]
		consumed = append(consumed, span{b[0], b[1]})
	}
	substituted.WriteString(tmpl[last:])

	produced := sampledOnly.String()
	if st.Remainder == RemainderMembership {
		produced = substituted.String()
	}
	st.out.WriteString(produced)

	return st.remainder(tmpl, produced, consumed), nil
}

// literalPass appends escaped literals and one sampled character per code.
func (st *render) literalPass(text string) error {
	escaped := false
	i := 0
	for _, c := range text {
		pos := i
		if st.offsets != nil {
			pos = st.offsets[i]
		}
		i++

		switch {
		case escaped:
			st.out.WriteRune(c)
			escaped = false
			st.Logger.Debug("adding literal character, custom characters can reduce password strength",
				logger.F("char", string(c)))
		case c == charset.Escape:
			escaped = true
		case st.reg.Has(c):
			chars, _ := st.reg.Lookup(c)
			sampled, err := charset.Pool(chars).Sample(st.Source, 1)
			if err != nil {
				return err
			}
			st.out.WriteString(sampled)
			st.Logger.Debug("added code to password", logger.F("code", string(c)))
		default:
			if err := st.unresolved(c, pos); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st *render) unresolved(c rune, pos int) error {
	if st.OnUnresolved == UnresolvedFail {
		return fmt.Errorf("%w: %q at position %d", ErrUnresolvedCode, c, pos)
	}

	st.result.Unresolved = append(st.result.Unresolved, Unresolved{Char: c, Position: pos})
	st.Logger.Warn("undefined character in template",
		logger.F("char", string(c)),
		logger.F("position", pos),
		logger.F("policy", st.OnUnresolved))

	if st.OnUnresolved == UnresolvedKeep {
		st.out.WriteRune(c)
	}
	return nil
}

// sample expands spec against the current registry and draws n characters.
// An exclusion in spec carries over to the rest of the render.
func (st *render) sample(spec string, n int) (string, error) {
	exp := charset.Expander{Registry: st.reg, Source: st.Source, Logger: st.Logger}
	pool, reg := exp.Expand(spec)
	st.reg = reg

	sampled, err := pool.Sample(st.Source, n)
	if err != nil {
		return "", fmt.Errorf("custom set %q: %w", spec, err)
	}
	return sampled, nil
}

func (st *render) repeatCount(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxRepeat {
		st.Logger.Warn("repeat count too large, clamping", logger.F("count", digits), logger.F("max", MaxRepeat))
		return MaxRepeat
	}
	return n
}

// remainder computes the text left for the literal pass and records where
// each of its characters sits in tmpl.
func (st *render) remainder(tmpl, produced string, consumed []span) string {
	if st.Remainder == RemainderMembership {
		var (
			b       strings.Builder
			offsets []int
			n       int
		)
		for _, c := range tmpl {
			if !strings.ContainsRune(produced, c) {
				b.WriteRune(c)
				offsets = append(offsets, n)
			}
			n++
		}
		st.offsets = offsets
		return b.String()
	}

	text, offsets := removeSpans(tmpl, consumed)
	st.offsets = offsets
	return text
}

// precedingChar returns the character right before index i and the byte
// offset where it starts, including an escaping backslash.
func precedingChar(tmpl string, i int) (rune, int, bool) {
	if i == 0 {
		return 0, 0, false
	}
	c, size := utf8.DecodeLastRuneInString(tmpl[:i])
	start := i - size
	if start > 0 && tmpl[start-1] == charset.Escape {
		start--
	}
	return c, start, true
}

// removeSpans deletes the given byte ranges, which may overlap, and
// returns the rune offset in s of every character kept.
func removeSpans(s string, spans []span) (string, []int) {
	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b span) int { return a.start - b.start })

	var (
		b       strings.Builder
		offsets []int
		next    int
		n       int
	)
	for i, c := range s {
		for next < len(sorted) && sorted[next].end <= i {
			next++
		}
		if next == len(sorted) || sorted[next].start > i {
			b.WriteRune(c)
			offsets = append(offsets, n)
		}
		n++
	}
	return b.String(), offsets
}
