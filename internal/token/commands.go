package token

// Directive identifies a colon-prefixed session command.
type Directive uint8

const (
	DirNone Directive = iota
	// DirLoad opens a shared library (:l).
	DirLoad
	// DirUnload releases a shared library (:ul).
	DirUnload
	// DirList prints the loaded libraries (:ls).
	DirList
	// DirModeInt selects the signed 64-bit integer output mode (:d).
	DirModeInt
	// DirModeFloat selects the double output mode (:f).
	DirModeFloat
	// DirModeChar selects the signed char output mode (:c).
	DirModeChar
	// DirModeVoid selects the void output mode (:v).
	DirModeVoid
	// DirModeString selects the NUL-terminated string output mode (:s).
	DirModeString
	// DirModeAddress selects the raw pointer output mode (:p).
	DirModeAddress
	// DirRedisplay prints the last formatted result again (:r).
	DirRedisplay
	// DirConst defines a constant (:const).
	DirConst
	// DirVar defines or reassigns a variable (:var).
	DirVar
	// DirShow displays named variables and constants (:t).
	DirShow
	// DirShowAll displays every variable and constant (:pa).
	DirShowAll
	// DirHelp prints the command table (:h).
	DirHelp
	// DirQuit ends the session (:q).
	DirQuit
)

var directives = map[string]Directive{
	":l":     DirLoad,
	":ul":    DirUnload,
	":ls":    DirList,
	":d":     DirModeInt,
	":f":     DirModeFloat,
	":c":     DirModeChar,
	":v":     DirModeVoid,
	":s":     DirModeString,
	":p":     DirModeAddress,
	":r":     DirRedisplay,
	":const": DirConst,
	":var":   DirVar,
	":t":     DirShow,
	":pa":    DirShowAll,
	":h":     DirHelp,
	":q":     DirQuit,
}

// LookupDirective returns the directive for a command spelling such as ":ul".
// Spelling is case-sensitive.
func LookupDirective(text string) (Directive, bool) {
	d, ok := directives[text]
	return d, ok
}

// Spelling returns the canonical command text for d.
func (d Directive) Spelling() string {
	for text, dir := range directives {
		if dir == d {
			return text
		}
	}
	return ""
}

func (d Directive) String() string {
	if s := d.Spelling(); s != "" {
		return s
	}
	return "none"
}
