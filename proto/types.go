// Package proto parses PARI prototype codes (the "Prototype" field of
// pari.desc) into typed argument and return descriptions.
//
// A prototype is a compact string with one code per argument, optionally
// preceded by a return code: "GD0,L,DGp" reads as a required GEN, an
// optional long defaulting to 0, an optional GEN defaulting to NULL and the
// implicit real precision. Argument names are not part of the prototype;
// they are recovered from the help string.
package proto

import "fmt"

// Kind is the type of one argument.
type Kind int

const (
	KindSelf       Kind = iota // synthetic receiver, never passed to C
	KindGEN                    // G: PARI object
	KindLong                   // L: C long
	KindULong                  // U: C unsigned long
	KindString                 // s, r: string
	KindVariable               // n: variable number
	KindPrec                   // p: real precision (implicit)
	KindBitprec                // b: bit precision (implicit)
	KindSeriesPrec             // P: series precision (implicit)
	KindVariadic               // s*: any number of trailing objects
)

var kindNames = map[Kind]string{
	KindSelf:       "self",
	KindGEN:        "GEN",
	KindLong:       "long",
	KindULong:      "ulong",
	KindString:     "string",
	KindVariable:   "variable",
	KindPrec:       "prec",
	KindBitprec:    "bitprec",
	KindSeriesPrec: "serprec",
	KindVariadic:   "variadic",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Implicit reports whether the kind is filled in by the binding rather than
// named in the help string.
func (k Kind) Implicit() bool {
	return k == KindPrec || k == KindBitprec || k == KindSeriesPrec
}

// Object reports whether the argument is a Python object in the generated
// signature (as opposed to a typed C scalar).
func (k Kind) Object() bool {
	switch k {
	case KindSelf, KindGEN, KindString, KindVariable, KindVariadic:
		return true
	}
	return false
}

// Deprecation flags an argument whose use should warn.
type Deprecation struct {
	Ticket  int
	Message string
}

// Argument is one parsed argument.
type Argument struct {
	Kind       Kind
	Name       string
	Default    string // C-level default; empty when the argument is required
	Index      int    // position in the full argument list, self included
	Deprecated *Deprecation
}

// Optional reports whether the caller may omit the argument.
func (a Argument) Optional() bool {
	return a.Default != ""
}

// TempName is the name of the C-level temporary holding the converted value.
func (a Argument) TempName() string {
	return "_" + a.Name
}

func (a Argument) String() string {
	s := a.Kind.String() + " " + a.Name
	if a.Optional() {
		s += "=" + a.Default
	}
	return s
}

// Arguments is an ordered argument list.
type Arguments []Argument

// Names returns the argument names in order.
func (as Arguments) Names() []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Name
	}
	return out
}

// ReturnKind is the C return type of a PARI function.
type ReturnKind int

const (
	ReturnGEN    ReturnKind = iota // (none): GEN on the PARI stack
	ReturnMember                   // m: GEN pointing into an argument, must be copied
	ReturnInt                      // i: int
	ReturnLong                     // l: long
	ReturnULong                    // u: unsigned long
	ReturnVoid                     // v: no value
)

var returnCodes = map[byte]ReturnKind{
	'm': ReturnMember,
	'i': ReturnInt,
	'l': ReturnLong,
	'u': ReturnULong,
	'v': ReturnVoid,
}

// CType is the C type used to hold the result.
func (k ReturnKind) CType() string {
	switch k {
	case ReturnInt:
		return "int"
	case ReturnLong:
		return "long"
	case ReturnULong:
		return "unsigned long"
	case ReturnVoid:
		return "void"
	default:
		return "GEN"
	}
}

func (k ReturnKind) String() string {
	switch k {
	case ReturnMember:
		return "member"
	case ReturnGEN:
		return "GEN"
	default:
		return k.CType()
	}
}

// Return describes how the result of the C call is handed back.
type Return struct {
	Kind ReturnKind
}
