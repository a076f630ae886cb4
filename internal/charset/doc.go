// Package charset expands set specifications into pools of candidate
// characters.
//
// A set specification is a compact string of registry codes and escaped
// literals with two optional operators:
//
//	dl        digits and lowercase letters
//	d\-\_     digits plus the literal characters '-' and '_'
//	dl|uh     either "dl" or "uh", chosen at random
//	dlu^0O1l  digits, lower and upper case without look-alike characters
//
// Only the first '|' and the first '^' split the spec. Duplicate tokens are
// expanded once, but alphabets that overlap (for example "a" and "d") both
// contribute their characters, so shared characters are sampled more often.
//
// Exclusion never mutates the caller's registry: Expand returns the derived
// registry and the caller decides whether later steps should see it.
package charset
