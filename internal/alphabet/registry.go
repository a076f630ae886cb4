package alphabet

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Digits      = "0123456789"
	Lower       = "abcdefghijklmnopqrstuvwxyz"
	Upper       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Punctuation = `!"#$%&'()*+,-./:;<=>?@[\]^_` + "`" + `{|}~`
	Whitespace  = " \t\n\r\v\f"

	// DefaultPassword is the pool used when neither a template nor a set is given.
	DefaultPassword = Upper + Lower + Digits + Punctuation
)

// Reserved characters carry meaning in set and template syntax and can
// never be used as codes.
const Reserved = `\|^[]{}`

var (
	ErrInvalidCode   = errors.New("invalid alphabet code")
	ErrEmptyAlphabet = errors.New("empty alphabet")
)

// tableSize covers every ASCII code point.
const tableSize = 128

// Registry maps single-character codes to alphabets.
// It is a value type: every derivation returns a new Registry.
type Registry struct {
	base    [tableSize]string
	current [tableSize]string
}

// Info describes one registry entry
type Info struct {
	Code        rune
	Description string
	Chars       string
}

// defaults is the built-in table, in display order.
var defaults = []Info{
	{'d', "Digit", Digits},
	{'l', "Lower-Case Letter", Lower},
	{'u', "Upper-Case Letter", Upper},
	{'p', "Punctuation", ",.;:"},
	{'a', "Lower-Case Alphanumeric", Lower + Digits},
	{'A', "Mixed-Case Alphanumeric", Upper + Lower + Digits},
	{'U', "Upper-Case Alphanumeric", Upper + Digits},
	{'h', "Lower-Case Hex Digit", "0123456789abcdef"},
	{'H', "Upper-Case Hex Digit", "0123456789ABCDEF"},
	{'v', "Lower-Case Vowel", "aeiou"},
	{'V', "Mixed-Case Vowel", "AEIOUaeiou"},
	{'b', "Bracket", "(){}[]<>"},
	{'Z', "Upper-Case Vowel", "AEIOU"},
	{'c', "Lower-Case Consonant", "bcdfghjklmnpqrstvwxyz"},
	{'C', "Mixed-Case Consonant", "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ"},
	{'z', "Upper-Case Consonant", "BCDFGHJKLMNPQRSTVWXYZ"},
	{'S', "Printable", Digits + Lower + Upper + Punctuation + Whitespace},
	{'s', "Special", Punctuation},
	{'x', "Latin-1 Supplement", latin1()},
}

// exclusionCodes are the entries rebuilt by Exclude.
var exclusionCodes = []rune{'d', 'l', 'u', 'p'}

// latin1 returns U+00A1..U+00FF without the soft hyphen U+00AD.
func latin1() string {
	var b strings.Builder
	for r := rune(0xA1); r <= 0xFF; r++ {
		if r == 0xAD {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Default returns the built-in registry.
func Default() Registry {
	var r Registry
	for _, info := range defaults {
		r.base[info.Code] = info.Chars
		r.current[info.Code] = info.Chars
	}
	return r
}

// Lookup returns the alphabet for code. Non-ASCII, unassigned and empty
// entries are reported as absent.
func (r Registry) Lookup(code rune) (string, bool) {
	if code < 0 || code >= tableSize {
		return "", false
	}
	chars := r.current[code]
	return chars, chars != ""
}

// Has reports whether code resolves to a non-empty alphabet
func (r Registry) Has(code rune) bool {
	_, ok := r.Lookup(code)
	return ok
}

// Codes returns every assigned code, built-in codes first in display order,
// followed by custom codes in ASCII order.
func (r Registry) Codes() []rune {
	codes := make([]rune, 0, len(defaults))
	seen := make(map[rune]bool, len(defaults))
	for _, info := range defaults {
		if r.base[info.Code] != "" {
			codes = append(codes, info.Code)
		}
		seen[info.Code] = true
	}
	for c := rune(0); c < tableSize; c++ {
		if !seen[c] && r.base[c] != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// Entries returns Info for every assigned code, as listed by Codes.
func (r Registry) Entries() []Info {
	descriptions := make(map[rune]string, len(defaults))
	for _, info := range defaults {
		descriptions[info.Code] = info.Description
	}

	codes := r.Codes()
	entries := make([]Info, 0, len(codes))
	for _, c := range codes {
		desc, ok := descriptions[c]
		if !ok {
			desc = "Custom"
		}
		entries = append(entries, Info{Code: c, Description: desc, Chars: r.current[c]})
	}
	return entries
}

// Exclude returns a registry whose digit, lower, upper and punctuation
// entries are rebuilt from their base alphabets minus every character in
// chars. Exclusions never compound: each call starts from the base.
func (r Registry) Exclude(chars string) Registry {
	derived := r
	for _, code := range exclusionCodes {
		derived.current[code] = strings.Map(func(c rune) rune {
			if strings.ContainsRune(chars, c) {
				return -1
			}
			return c
		}, r.base[code])
	}
	return derived
}

// Excluded reports whether the registry differs from its base entries
func (r Registry) Excluded() bool {
	return r.base != r.current
}

// With returns a registry where code resolves to chars, replacing any
// built-in alphabet for that code.
func (r Registry) With(code rune, chars string) (Registry, error) {
	if err := ValidateCode(code); err != nil {
		return r, err
	}
	if chars == "" {
		return r, fmt.Errorf("code %q: %w", code, ErrEmptyAlphabet)
	}

	derived := r
	derived.base[code] = chars
	derived.current[code] = chars
	return derived, nil
}

// ValidateCode checks that code can be used as a registry key.
func ValidateCode(code rune) error {
	if code <= ' ' || code >= 0x7F {
		return fmt.Errorf("%w: %q is not a printable ASCII character", ErrInvalidCode, code)
	}
	if strings.ContainsRune(Reserved, code) {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidCode, code)
	}
	return nil
}
