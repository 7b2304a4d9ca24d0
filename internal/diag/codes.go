package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadChar            Code = 1004
	LexBadEscape          Code = 1005
	LexUnknownCommand     Code = 1006

	// Реестр библиотек
	LibInfo          Code = 2000
	LibLoadFailed    Code = 2001
	LibNotFound      Code = 2002
	LibPermission    Code = 2003
	LibNotLoaded     Code = 2004
	LibUnloadFailed  Code = 2005
	LibInvalidName   Code = 2006
	LibPreloadFailed Code = 2007

	// Разрешение символов
	SymUnresolved  Code = 3001
	SymInvalidName Code = 3002

	// Сигнатуры
	SigNoMapping   Code = 4001
	SigPrepFailed  Code = 4002
	SigUnsupported Code = 4003
	SigTooManyArgs Code = 4004

	// Маршалинг аргументов
	MarOverflow    Code = 5001
	MarEmbeddedNUL Code = 5002
	MarBadLiteral  Code = 5003
	MarOutOfMemory Code = 5004

	// Декодирование результата
	DecInvalidText Code = 6001
	DecUnreadable  Code = 6002
	DecNoResult    Code = 6003

	// Константы и переменные
	EvlSyntax      Code = 7001
	EvlUndefined   Code = 7002
	EvlType        Code = 7003
	EvlDivByZero   Code = 7004
	EvlRedefined   Code = 7005
	EvlConstAssign Code = 7006

	// Команды сессии
	CmdUsage    Code = 8001
	CmdExpected Code = 8002
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Invalid number literal",
	LexBadChar:            "Invalid character literal",
	LexBadEscape:          "Invalid escape sequence",
	LexUnknownCommand:     "Unknown command",
	LibInfo:               "Library information",
	LibLoadFailed:         "Library could not be loaded",
	LibNotFound:           "Library file not found",
	LibPermission:         "Library is not readable",
	LibNotLoaded:          "Library was not loaded",
	LibUnloadFailed:       "Library could not be released",
	LibInvalidName:        "Invalid library name",
	LibPreloadFailed:      "Preloaded library could not be loaded",
	SymUnresolved:         "Symbol not found in any loaded library",
	SymInvalidName:        "Invalid symbol name",
	SigNoMapping:          "Argument has no native type mapping",
	SigPrepFailed:         "Calling convention rejected the signature",
	SigUnsupported:        "Unsupported native type",
	SigTooManyArgs:        "Too many arguments",
	MarOverflow:           "Literal does not fit its native width",
	MarEmbeddedNUL:        "String literal contains an embedded NUL",
	MarBadLiteral:         "Literal could not be parsed",
	MarOutOfMemory:        "Argument storage could not be allocated",
	DecInvalidText:        "Returned bytes are not valid text",
	DecUnreadable:         "Returned pointer is not readable",
	DecNoResult:           "No result to display",
	EvlSyntax:             "Expression syntax error",
	EvlUndefined:          "Undefined variable",
	EvlType:               "Operand types do not match",
	EvlDivByZero:          "Division by zero",
	EvlRedefined:          "Name already defined",
	EvlConstAssign:        "Cannot reassign a constant",
	CmdUsage:              "Command usage",
	CmdExpected:           "Expected a function name or command",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LIB%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("SIG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("MAR%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("DEC%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("CMD%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
