package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	Echo      bool  // печатать исходную строку с подчёркиванием
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	Prefix    string
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludeText  bool // добавить текст под span
	IncludeNotes bool
	Max          int // обрезка вывода, не Bag
}
