package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolvedCode is returned under UnresolvedFail when the literal pass
// meets a character that is neither escaped nor a registry code.
var ErrUnresolvedCode = errors.New("undefined character in template")

// RemainderMode selects how the template left for the literal pass is
// computed after repeat expansion or custom-set substitution.
type RemainderMode int

const (
	// RemainderPositional removes the consumed constructs by position.
	RemainderPositional RemainderMode = iota
	// RemainderMembership removes every template character that also
	// appears in the produced text. Unrelated literals sharing a character
	// with the output disappear too; kept for compatibility with templates
	// written against the earlier generator.
	RemainderMembership
)

var remainderNames = map[RemainderMode]string{
	RemainderPositional: "positional",
	RemainderMembership: "membership",
}

func (m RemainderMode) String() string {
	if name, ok := remainderNames[m]; ok {
		return name
	}
	return fmt.Sprintf("RemainderMode(%d)", int(m))
}

// ParseRemainderMode parses "positional" or "membership".
func ParseRemainderMode(s string) (RemainderMode, error) {
	for mode, name := range remainderNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown remainder mode %q (want positional or membership)", s)
}

// UnresolvedPolicy decides what the literal pass does with characters
// that resolve to no alphabet.
type UnresolvedPolicy int

const (
	// UnresolvedDrop logs a warning and omits the character.
	UnresolvedDrop UnresolvedPolicy = iota
	// UnresolvedKeep logs a warning and copies the character as a literal.
	UnresolvedKeep
	// UnresolvedFail aborts rendering with ErrUnresolvedCode.
	UnresolvedFail
)

var policyNames = map[UnresolvedPolicy]string{
	UnresolvedDrop: "drop",
	UnresolvedKeep: "keep",
	UnresolvedFail: "fail",
}

func (p UnresolvedPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("UnresolvedPolicy(%d)", int(p))
}

// ParseUnresolvedPolicy parses "drop", "keep" or "fail".
func ParseUnresolvedPolicy(s string) (UnresolvedPolicy, error) {
	for policy, name := range policyNames {
		if strings.EqualFold(s, name) {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("unknown unresolved policy %q (want drop, keep or fail)", s)
}
