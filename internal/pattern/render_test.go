package pattern_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/passgen/internal/alphabet"
	"github.com/simonhull/firebird-suite/passgen/internal/charset"
	"github.com/simonhull/firebird-suite/passgen/internal/logger"
	"github.com/simonhull/firebird-suite/passgen/internal/pattern"
	"github.com/simonhull/firebird-suite/passgen/internal/random"
)

func newRenderer(mode pattern.RemainderMode) pattern.Renderer {
	return pattern.Renderer{
		Registry:  alphabet.Default(),
		Source:    random.NewSeeded(2024),
		Logger:    logger.NewSilentLogger(),
		Remainder: mode,
	}
}

func render(t *testing.T, r pattern.Renderer, tmpl string) pattern.Result {
	t.Helper()
	res, err := r.Render(tmpl)
	require.NoError(t, err)
	return res
}

func isIn(chars string) func(rune) bool {
	return func(c rune) bool { return strings.ContainsRune(chars, c) }
}

func TestRender_RepeatSingleCharacter(t *testing.T) {
	for _, mode := range []pattern.RemainderMode{pattern.RemainderPositional, pattern.RemainderMembership} {
		t.Run(mode.String(), func(t *testing.T) {
			res := render(t, newRenderer(mode), "a{3}")
			assert.Equal(t, "aaa", res.Password)
		})
	}
}

func TestRender_RepeatCustomSet(t *testing.T) {
	r := newRenderer(pattern.RemainderPositional)

	for i := 0; i < 100; i++ {
		res := render(t, r, "[dl]{5}")
		require.Equal(t, 5, utf8.RuneCountInString(res.Password), "password %q", res.Password)
		for _, c := range res.Password {
			assert.True(t, isIn(alphabet.Digits+alphabet.Lower)(c), "unexpected %q", c)
		}
		assert.Empty(t, res.Unresolved)
	}
}

func TestRender_EscapedLiteral(t *testing.T) {
	r := newRenderer(pattern.RemainderPositional)

	for i := 0; i < 50; i++ {
		res := render(t, r, `u\-l`)
		runes := []rune(res.Password)
		require.Len(t, runes, 3)
		assert.True(t, unicode.IsUpper(runes[0]))
		assert.Equal(t, '-', runes[1])
		assert.True(t, unicode.IsLower(runes[2]))
	}
}

func TestRender_OnlyFirstRepeatExpands(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), `u{4}d{3}\-l{2}`)

	runes := []rune(res.Password)
	require.Len(t, runes, 7)
	assert.Equal(t, "uuuu", string(runes[:4]))
	assert.True(t, unicode.IsDigit(runes[4]))
	assert.Equal(t, '-', runes[5])
	assert.True(t, unicode.IsLower(runes[6]))

	var dropped []rune
	for _, u := range res.Unresolved {
		dropped = append(dropped, u.Char)
	}
	assert.Equal(t, []rune("{3}{2}"), dropped)
}

func TestRender_GlobalBracketPool(t *testing.T) {
	r := newRenderer(pattern.RemainderPositional)
	latin1, _ := alphabet.Default().Lookup('x')

	for i := 0; i < 50; i++ {
		res := render(t, r, "[d]x[u]{4}")
		runes := []rune(res.Password)
		require.Len(t, runes, 5)
		for _, c := range runes[:4] {
			assert.True(t, isIn(alphabet.Digits+alphabet.Upper)(c), "unexpected %q", c)
		}
		assert.True(t, isIn(latin1)(runes[4]))
	}
}

func TestRender_SubstituteSets(t *testing.T) {
	r := newRenderer(pattern.RemainderPositional)

	for i := 0; i < 50; i++ {
		res := render(t, r, "[d][u]l")
		runes := []rune(res.Password)
		require.Len(t, runes, 3)
		assert.True(t, unicode.IsDigit(runes[0]))
		assert.True(t, unicode.IsUpper(runes[1]))
		assert.True(t, unicode.IsLower(runes[2]))
	}
}

func TestRender_SubstituteSamplesSpecLength(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), "[dl]")
	assert.Equal(t, 2, utf8.RuneCountInString(res.Password))
}

func TestRender_RemainderModes(t *testing.T) {
	tests := []struct {
		name string
		mode pattern.RemainderMode
		tmpl string
		want func(t *testing.T, password string)
	}{
		{
			name: "positional keeps the code outside the block",
			mode: pattern.RemainderPositional,
			tmpl: `d[\-]`,
			want: func(t *testing.T, password string) {
				require.Len(t, password, 3)
				assert.Equal(t, "--", password[:2])
				assert.True(t, unicode.IsDigit(rune(password[2])))
			},
		},
		{
			name: "membership removes characters shared with the output",
			mode: pattern.RemainderMembership,
			tmpl: `d[\-]`,
			want: func(t *testing.T, password string) {
				// "d--" is substituted, then "[\]" is left: '[' is dropped
				// and the escaped ']' is copied
				assert.Equal(t, "d--]", password)
			},
		},
		{
			name: "positional removes an escaped repeated character",
			mode: pattern.RemainderPositional,
			tmpl: `\-{3}`,
			want: func(t *testing.T, password string) {
				assert.Equal(t, "---", password)
			},
		},
		{
			name: "membership leaves the marker for the literal pass",
			mode: pattern.RemainderMembership,
			tmpl: `\-{3}`,
			want: func(t *testing.T, password string) {
				assert.Equal(t, "---{", password)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := render(t, newRenderer(tt.mode), tt.tmpl)
			tt.want(t, res.Password)
		})
	}
}

func TestRender_ExclusionCarriesOver(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), "[d^012345678]{10}d")

	assert.Equal(t, "99999999999", res.Password)
	assert.True(t, res.Registry.Excluded())
}

func TestRender_RegistryUnchangedWithoutExclusion(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), "[dl]{3}")
	assert.False(t, res.Registry.Excluded())
}

func TestRender_EmptyPool(t *testing.T) {
	r := newRenderer(pattern.RemainderPositional)

	for _, tmpl := range []string{"[q]", "[q]{3}", "u[d^0123456789]"} {
		t.Run(tmpl, func(t *testing.T) {
			_, err := r.Render(tmpl)
			assert.ErrorIs(t, err, charset.ErrEmptyPool)
		})
	}
}

func TestRender_UnresolvedPolicies(t *testing.T) {
	t.Run("drop", func(t *testing.T) {
		r := newRenderer(pattern.RemainderPositional)
		res := render(t, r, "u?l")
		assert.Equal(t, 2, utf8.RuneCountInString(res.Password))
		assert.Equal(t, []pattern.Unresolved{{Char: '?', Position: 1}}, res.Unresolved)
	})

	t.Run("keep", func(t *testing.T) {
		r := newRenderer(pattern.RemainderPositional)
		r.OnUnresolved = pattern.UnresolvedKeep
		res := render(t, r, "u?l")
		require.Len(t, res.Password, 3)
		assert.Equal(t, byte('?'), res.Password[1])
		assert.Len(t, res.Unresolved, 1)
	})

	t.Run("fail", func(t *testing.T) {
		r := newRenderer(pattern.RemainderPositional)
		r.OnUnresolved = pattern.UnresolvedFail
		_, err := r.Render("u?l")
		assert.ErrorIs(t, err, pattern.ErrUnresolvedCode)
	})
}

func TestRender_UnresolvedPositionsAreTemplateOffsets(t *testing.T) {
	tests := []struct {
		name string
		mode pattern.RemainderMode
		tmpl string
		want []pattern.Unresolved
	}{
		{
			name: "no passes",
			mode: pattern.RemainderPositional,
			tmpl: `u\-?`,
			want: []pattern.Unresolved{{Char: '?', Position: 3}},
		},
		{
			name: "after repeat, positional",
			mode: pattern.RemainderPositional,
			tmpl: "u{4}d{3}",
			want: []pattern.Unresolved{{Char: '{', Position: 5}, {Char: '3', Position: 6}, {Char: '}', Position: 7}},
		},
		{
			name: "after repeat, membership",
			mode: pattern.RemainderMembership,
			tmpl: "u{4}d{3}",
			want: []pattern.Unresolved{
				{Char: '{', Position: 1}, {Char: '4', Position: 2}, {Char: '}', Position: 3},
				{Char: '{', Position: 5}, {Char: '3', Position: 6}, {Char: '}', Position: 7},
			},
		},
		{
			name: "after custom set",
			mode: pattern.RemainderPositional,
			tmpl: "[d]é?",
			want: []pattern.Unresolved{{Char: 'é', Position: 3}, {Char: '?', Position: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := render(t, newRenderer(tt.mode), tt.tmpl)
			assert.Equal(t, tt.want, res.Unresolved)
		})
	}
}

func TestRender_UnresolvedIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	r := newRenderer(pattern.RemainderPositional)
	r.Logger = logger.NewLogger(logger.LevelWarn, buf)

	render(t, r, "d!")

	output := buf.String()
	assert.Contains(t, output, "undefined character in template")
	assert.Contains(t, output, "char=!")
	assert.Contains(t, output, "policy=drop")
}

func TestRender_CustomSetStrengthWarning(t *testing.T) {
	buf := &bytes.Buffer{}
	r := newRenderer(pattern.RemainderPositional)
	r.Logger = logger.NewLogger(logger.LevelWarn, buf)

	render(t, r, "[dl]")
	assert.Contains(t, buf.String(), "custom sets can reduce password strength")
}

func TestRender_RepeatWithoutPrecedingCharacter(t *testing.T) {
	buf := &bytes.Buffer{}
	r := newRenderer(pattern.RemainderPositional)
	r.Logger = logger.NewLogger(logger.LevelWarn, buf)

	res := render(t, r, "{3}d")
	require.Len(t, res.Password, 1)
	assert.True(t, unicode.IsDigit(rune(res.Password[0])))
	assert.Contains(t, buf.String(), "repeat marker has no preceding character")
}

func TestRender_RepeatCountClamped(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), "a{99999999999999999999}")
	assert.Len(t, res.Password, pattern.MaxRepeat)
}

func TestRender_LiteralsOnly(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), `\p\a\s\s`)
	assert.Equal(t, "pass", res.Password)
}

func TestRender_Empty(t *testing.T) {
	res := render(t, newRenderer(pattern.RemainderPositional), "")
	assert.Empty(t, res.Password)
	assert.Empty(t, res.Unresolved)
}

func TestParseRemainderMode(t *testing.T) {
	mode, err := pattern.ParseRemainderMode("Membership")
	require.NoError(t, err)
	assert.Equal(t, pattern.RemainderMembership, mode)

	_, err = pattern.ParseRemainderMode("sideways")
	assert.Error(t, err)
}

func TestParseUnresolvedPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want pattern.UnresolvedPolicy
	}{
		{"drop", pattern.UnresolvedDrop},
		{"keep", pattern.UnresolvedKeep},
		{"FAIL", pattern.UnresolvedFail},
	}
	for _, tt := range tests {
		got, err := pattern.ParseUnresolvedPolicy(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, strings.ToLower(tt.in), got.String())
	}

	_, err := pattern.ParseUnresolvedPolicy("ignore")
	assert.Error(t, err)
}
