// Package passgen generates passwords from lengths, character-set
// specifications and templates. The command lives in cmd/passgen; the
// engine is split across internal/alphabet, internal/charset,
// internal/pattern and internal/generator.
package passgen

// Version is the passgen release version
const Version = "0.2.0"
