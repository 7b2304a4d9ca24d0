// Package diag defines the diagnostic model shared by every stage of a command line.
//
// # Purpose
//
//   - Give each failure a stable Code (LEX, LIB, SYM, SIG, MAR, DEC, EVL, CMD ranges)
//     so scripted sessions and tests can match on it.
//   - Offer light-weight utilities (Reporter, Bag) that let stages emit diagnostics
//     without knowing how they are rendered.
//
// # Scope
//
// Package diag does not format or print. Rendering lives in internal/diagfmt; the
// session decides when a Bag is flushed (once per command line).
//
// # Errors and diagnostics
//
// Stages that abort a command return ordinary Go errors. An error that implements
// Coded (and optionally Spanned / Noted) is converted into a Diagnostic by FromError,
// so the session reports it with its code, location and notes. Non-fatal findings
// (lexing problems) go straight to a Reporter and never abort the line.
package diag
