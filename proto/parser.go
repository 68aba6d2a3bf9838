package proto

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/parigen/errors"
)

// Options controls a single Parse call.
type Options struct {
	// Self prepends a synthetic receiver argument named "self".
	Self bool
	// Deprecated flags arguments by name.
	Deprecated map[string]Deprecation
}

// ParseError reports a prototype the generator cannot handle.
// It matches errors.ErrUnsupportedPrototype.
type ParseError struct {
	Prototype string
	Pos       int
	Code      string
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("prototype %q: %s %q at %d", e.Prototype, e.Reason, e.Code, e.Pos)
	}
	return fmt.Sprintf("prototype %q: %s", e.Prototype, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == errors.ErrUnsupportedPrototype
}

var argCodes = map[byte]Kind{
	'G': KindGEN,
	'L': KindLong,
	'U': KindULong,
	's': KindString,
	'r': KindString,
	'n': KindVariable,
	'p': KindPrec,
	'b': KindBitprec,
	'P': KindSeriesPrec,
}

// Codes PARI defines that have no wrapper support yet.
var unsupportedCodes = map[byte]bool{
	'&': true, // GEN* output argument
	'V': true, // loop variable
	'W': true, // lvalue GEN
	'I': true, // closure returning void
	'E': true, // closure
	'J': true, // closure with arguments
	'C': true, // evaluation context
	'*': true, // repetition
	'=': true, // separator in GP-only codes
	'M': true, // mnemonic flag
}

// Defaults for "D" followed directly by a code.
var emptyDefaults = map[Kind]string{
	KindGEN:      "NULL",
	KindLong:     "0",
	KindULong:    "0",
	KindString:   "NULL",
	KindVariable: "-1",
}

var implicitArgs = map[Kind]struct {
	name string
	def  string
}{
	KindPrec:       {"precision", "0"},
	KindBitprec:    {"precision", "0"},
	KindSeriesPrec: {"serprec", "-1"},
}

// Parse decodes prototype, taking argument names from help.
//
// Parse is pure: calling it again with the same input, with or without
// Options.Self, never depends on an earlier call.
func Parse(prototype, help string, opts Options) (Arguments, Return, error) {
	p := &parser{
		proto: prototype,
		names: HelpNames(help),
		opts:  opts,
	}
	return p.parse()
}

type parser struct {
	proto string
	pos   int
	names []string
	opts  Options
	args  Arguments
}

func (p *parser) fail(pos int, code, reason string) error {
	return errors.Mark(&ParseError{
		Prototype: p.proto,
		Pos:       pos,
		Code:      code,
		Reason:    reason,
	}, errors.ErrUnsupportedPrototype)
}

func (p *parser) nextName() string {
	if len(p.names) == 0 {
		return "_arg" + strconv.Itoa(len(p.args))
	}
	n := p.names[0]
	p.names = p.names[1:]
	return n
}

func (p *parser) parse() (Arguments, Return, error) {
	ret := Return{Kind: ReturnGEN}
	if p.pos < len(p.proto) {
		if k, ok := returnCodes[p.proto[p.pos]]; ok {
			ret.Kind = k
			p.pos++
		}
	}

	if p.opts.Self {
		p.args = append(p.args, Argument{Kind: KindSelf, Name: "self"})
	}

	haveDefault := false
	for p.pos < len(p.proto) {
		start := p.pos
		c := p.proto[p.pos]
		p.pos++

		def, hasDefault := "", false
		if c == 'D' {
			hasDefault = true
			if p.pos >= len(p.proto) {
				return nil, Return{}, p.fail(start, "D", "default without argument code")
			}
			if !isCode(p.proto[p.pos]) {
				end := strings.IndexByte(p.proto[p.pos:], ',')
				if end < 0 {
					return nil, Return{}, p.fail(start, "D", "unterminated default value")
				}
				def = p.proto[p.pos : p.pos+end]
				p.pos += end + 1
				if p.pos >= len(p.proto) {
					return nil, Return{}, p.fail(start, "D", "default without argument code")
				}
			}
			c = p.proto[p.pos]
			p.pos++
		}

		if c == ',' && !hasDefault {
			continue
		}
		if unsupportedCodes[c] {
			return nil, Return{}, p.fail(p.pos-1, string(c), "unsupported code")
		}
		kind, ok := argCodes[c]
		if !ok {
			return nil, Return{}, p.fail(p.pos-1, string(c), "unknown code")
		}
		if kind == KindString && p.pos < len(p.proto) && p.proto[p.pos] == '*' {
			kind = KindVariadic
			p.pos++
		}

		if n := len(p.args); n > 0 && p.args[n-1].Kind == KindVariadic {
			return nil, Return{}, p.fail(start, string(c), "argument after variadic tail")
		}

		arg := Argument{Kind: kind, Index: len(p.args)}
		switch {
		case kind.Implicit():
			arg.Name = implicitArgs[kind].name
			arg.Default = implicitArgs[kind].def
			if def != "" {
				arg.Default = def
			}
		case kind == KindVariadic:
			if hasDefault {
				return nil, Return{}, p.fail(start, "s*", "default on variadic tail")
			}
			arg.Name = p.nextName()
		default:
			arg.Name = p.nextName()
			if hasDefault {
				arg.Default = def
				if arg.Default == "" {
					arg.Default = emptyDefaults[kind]
				}
			}
		}

		if kind == KindGEN && arg.Optional() && arg.Default != "NULL" && arg.Default != "0" {
			return nil, Return{}, p.fail(start, arg.Default, "unsupported GEN default")
		}

		switch {
		case arg.Optional():
			haveDefault = true
		case kind == KindVariadic:
		case haveDefault:
			return nil, Return{}, p.fail(start, string(c), "required argument after optional argument")
		}

		if d, ok := p.opts.Deprecated[arg.Name]; ok {
			dep := d
			arg.Deprecated = &dep
		}

		p.args = append(p.args, arg)
	}

	return p.args, ret, nil
}

func isCode(c byte) bool {
	_, ok := argCodes[c]
	return ok || unsupportedCodes[c]
}

var argNameRE = regexp.MustCompile(`^[ {]*([A-Za-z_][A-Za-z0-9_]*)`)

// Renames for argument names that are reserved words in the generated code.
var reservedNames = map[string]string{
	"def":    "default",
	"lambda": "L",
}

var pythonKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "break": true, "class": true,
	"continue": true, "del": true, "elif": true, "else": true, "except": true,
	"exec": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "not": true, "or": true,
	"pass": true, "print": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true, "None": true, "True": true,
	"False": true, "self": true,
}

// HelpNames extracts argument names from a help string such as
// "bnfinit(P,{flag=0},{tech=[]}): ...", giving [P flag tech].
// Pieces that do not start with an identifier are dropped.
func HelpNames(help string) []string {
	open := strings.IndexByte(help, '(')
	if open < 0 {
		return nil
	}
	depth := 0
	end := -1
	for i := open; i < len(help) && end < 0; i++ {
		switch help[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}
	}
	if end < 0 {
		return nil
	}

	var names []string
	for _, piece := range strings.Split(help[open+1:end], ",") {
		m := argNameRE.FindStringSubmatch(piece)
		if m == nil {
			continue
		}
		names = append(names, safeName(m[1]))
	}
	return names
}

func safeName(n string) string {
	if r, ok := reservedNames[n]; ok {
		return r
	}
	if pythonKeywords[n] {
		return n + "_"
	}
	return n
}
