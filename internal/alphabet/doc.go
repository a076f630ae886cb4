// Package alphabet holds the registry of single-character codes used by
// set specifications and templates.
//
// # Codes
//
// Each code resolves to an alphabet. The built-in table covers digits (d),
// letters (l, u), alphanumerics (a, A, U), hex digits (h, H), vowels and
// consonants (v, V, Z, c, C, z), brackets (b), punctuation (p, s), the
// printable ASCII range (S) and the Latin-1 supplement (x).
//
// # Derivation
//
// A Registry is a plain value backed by fixed-size arrays. Exclude and With
// return new registries and never modify the receiver, so a registry can be
// passed between generation steps without aliasing:
//
//	reg := alphabet.Default()
//	noFives := reg.Exclude("5")
//	digits, _ := noFives.Lookup('d') // "012346789"
package alphabet
