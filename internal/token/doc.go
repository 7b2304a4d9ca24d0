// Package token defines lexical token kinds and command directives for crepl.
// Invariants:
//   - Token.Text is the normalized payload: string literals lose their quotes and have
//     escapes resolved, char literals keep only the character, everything else is the
//     exact source slice.
//   - Token.Span always covers the original source bytes, quotes included.
//   - A signed number ("-5", "+1.5") is a single literal token; the expression parser
//     splits it back when the sign is used as a binary operator.
//   - Commands (":l", ":const", ...) are a single Command token; the directive is
//     recovered through LookupDirective.
package token
