package token

// Kind represents the category of a command-line token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the line.
	EOF

	// Ident represents an identifier: a function name or a variable reference.
	Ident
	// FileName represents a dotted name or path naming a shared library.
	FileName

	// StringLit represents a double-quoted string literal.
	StringLit
	// FloatLit represents a floating point literal.
	FloatLit
	// IntLit represents an integer literal (decimal, hex, binary or octal).
	IntLit
	// CharLit represents a single-quoted character literal.
	CharLit

	LParen // (
	RParen // )
	Minus  // -
	Plus   // +
	Star   // *
	Slash  // /
	EqEq   // ==
	BangEq // !=
	LtEq   // <=
	Lt     // <
	GtEq   // >=
	Gt     // >
	Bang   // !

	// Command represents a colon-prefixed session directive.
	Command
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	FileName:  "FileName",
	StringLit: "StringLit",
	FloatLit:  "FloatLit",
	IntLit:    "IntLit",
	CharLit:   "CharLit",
	LParen:    "LParen",
	RParen:    "RParen",
	Minus:     "Minus",
	Plus:      "Plus",
	Star:      "Star",
	Slash:     "Slash",
	EqEq:      "EqEq",
	BangEq:    "BangEq",
	LtEq:      "LtEq",
	Lt:        "Lt",
	GtEq:      "GtEq",
	Gt:        "Gt",
	Bang:      "Bang",
	Command:   "Command",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
