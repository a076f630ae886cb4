// Package pattern renders passwords from templates.
//
// # Syntax
//
//	d, l, u, ...   registry code: one random character from its alphabet
//	\c             the character c, as is
//	[spec]         custom set: characters drawn from a set specification
//	               (see package charset), one per character of spec
//	{n}            repeat marker
//
// Examples:
//
//	u\-l        "K-f"
//	a{3}        "aaa"
//	[dl]{5}     "x3k9q"
//	[d^5]{4}    four digits, none of them 5
//
// # Evaluation
//
// Rendering runs in three passes. The first {n} marker is expanded first:
// if the template contains any [...] block, n characters are drawn from the
// pool of all blocks combined; otherwise the single character before the
// marker is repeated n times as is. Only when there is no marker are the
// [...] blocks substituted one by one. The remaining template is then read
// left to right, where codes are sampled, escapes copied, and any other
// character is handled according to the UnresolvedPolicy.
//
// The output of the first or second pass always precedes the output of the
// literal pass. Which characters reach the literal pass depends on the
// RemainderMode.
package pattern
