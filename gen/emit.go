package gen

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/proto"
)

// Indentation of the method header and body inside the generated class.
const (
	indentDef  = "    "
	indentBody = "        "
)

const methodTemplate = `    def {{.Name}}({{.Signature}}):
        r"""
        {{.Doc}}
        """
{{range .Deprecations}}{{.}}{{end}}{{range .Conversions}}{{.}}{{end}}        sig_on()
{{.Result}}
`

// Emitter renders one Cython method per routed function.
type Emitter struct {
	tmpl *template.Template
}

// NewEmitter compiles the method template.
func NewEmitter() (*Emitter, error) {
	tmpl, err := template.New("method").Option("missingkey=error").Parse(methodTemplate)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing method template"), errors.ErrEmissionDefect)
	}
	return &Emitter{tmpl: tmpl}, nil
}

type methodData struct {
	Name         string
	Signature    string
	Doc          string
	Deprecations []string
	Conversions  []string
	Result       string
}

// Emit returns the complete method text for d, ending with an empty line.
// Any failure is an emission defect.
func (e *Emitter) Emit(d desc.Descriptor, r Routed, docText string) (string, error) {
	if err := checkReceiver(d.Name, r); err != nil {
		return "", err
	}

	data := methodData{
		Name: d.Name,
		Doc:  reindentDoc(docText),
	}

	sig := make([]string, 0, len(r.Args))
	for _, a := range r.Args {
		s, err := signatureCode(a, r.Receiver)
		if err != nil {
			return "", defect(d.Name, err)
		}
		sig = append(sig, s)
	}
	data.Signature = strings.Join(sig, ", ")

	for _, a := range r.Args {
		if a.Deprecated == nil {
			continue
		}
		data.Deprecations = append(data.Deprecations, deprecationCode(d.Name, a))
	}

	for _, a := range r.Args {
		s, err := convertCode(a, r.Receiver)
		if err != nil {
			return "", defect(d.Name, err)
		}
		if s != "" {
			data.Conversions = append(data.Conversions, s)
		}
	}

	call := make([]string, 0, len(r.CallArgs))
	for _, a := range r.CallArgs {
		s, err := callCode(a)
		if err != nil {
			return "", defect(d.Name, err)
		}
		call = append(call, s)
	}
	result, err := resultCode(fmt.Sprintf("%s(%s)", d.CName, strings.Join(call, ", ")), r.Return)
	if err != nil {
		return "", defect(d.Name, err)
	}
	data.Result = result

	var b strings.Builder
	if err := e.tmpl.Execute(&b, data); err != nil {
		return "", defect(d.Name, err)
	}
	return b.String(), nil
}

// EmitMethod routes and emits in one go, with a fresh Emitter.
func EmitMethod(d desc.Descriptor, docText string, opts proto.Options) (string, error) {
	r, err := Route(d, opts)
	if err != nil {
		return "", err
	}
	e, err := NewEmitter()
	if err != nil {
		return "", err
	}
	return e.Emit(d, r, docText)
}

func defect(function string, err error) error {
	return errors.Mark(errors.Wrapf(err, "emitting %s", function), errors.ErrEmissionDefect)
}

func checkReceiver(function string, r Routed) error {
	if len(r.Args) == 0 {
		if r.Receiver == ReceiverEngine {
			return errors.NewEmissionDefect("%s: engine method without self", function)
		}
		return errors.NewEmissionDefect("%s: value method without receiver", function)
	}
	first := r.Args[0].Kind
	switch {
	case r.Receiver == ReceiverValue && first != proto.KindGEN:
		return errors.NewEmissionDefect("%s: value method starts with %s", function, first)
	case r.Receiver == ReceiverEngine && first != proto.KindSelf:
		return errors.NewEmissionDefect("%s: engine method starts with %s", function, first)
	}
	return nil
}

// reindentDoc places every line of the doc at body indentation inside a raw
// triple-quoted string.
func reindentDoc(s string) string {
	s = strings.ReplaceAll(s, `"""`, `""\"`)
	return strings.ReplaceAll(s, "\n", "\n"+indentBody)
}

func scalarType(k proto.Kind) string {
	if k == proto.KindULong {
		return "unsigned long"
	}
	return "long"
}

func signatureCode(a proto.Argument, recv Receiver) (string, error) {
	switch a.Kind {
	case proto.KindSelf:
		return "self", nil
	case proto.KindGEN:
		if a.Optional() && !isReceiver(a, recv) {
			return a.Name + "=None", nil
		}
		return a.Name, nil
	case proto.KindVariadic:
		return "*" + a.Name, nil
	case proto.KindString, proto.KindVariable:
		if a.Optional() {
			return a.Name + "=None", nil
		}
		return a.Name, nil
	case proto.KindLong, proto.KindULong, proto.KindPrec, proto.KindBitprec, proto.KindSeriesPrec:
		s := scalarType(a.Kind) + " " + a.Name
		if a.Optional() {
			s += "=" + a.Default
		}
		return s, nil
	}
	return "", errors.Newf("no signature for argument %s of kind %s", a.Name, a.Kind)
}

func deprecationCode(function string, a proto.Argument) string {
	msg := a.Deprecated.Message
	if msg == "" {
		msg = fmt.Sprintf("the argument %s in %s() is deprecated", a.Name, function)
	}
	var b strings.Builder
	indent := indentBody
	switch {
	case !a.Optional():
	case a.Kind.Object():
		fmt.Fprintf(&b, "%sif %s is not None:\n", indentBody, a.Name)
		indent += indentDef
	default:
		fmt.Fprintf(&b, "%sif %s != %s:\n", indentBody, a.Name, a.Default)
		indent += indentDef
	}
	fmt.Fprintf(&b, "%sfrom sage.misc.superseded import deprecation\n", indent)
	fmt.Fprintf(&b, "%sdeprecation(%d, %s)\n", indent, a.Deprecated.Ticket, strconv.Quote(msg))
	return b.String()
}

func convertCode(a proto.Argument, recv Receiver) (string, error) {
	var b strings.Builder
	line := func(depth int, format string, args ...interface{}) {
		b.WriteString(indentBody)
		b.WriteString(strings.Repeat(indentDef, depth))
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	name, tmp := a.Name, a.TempName()

	switch a.Kind {
	case proto.KindSelf:
		line(0, "cdef PariInstance pari_instance = <PariInstance>self")
	case proto.KindGEN:
		switch {
		case isReceiver(a, recv):
			line(0, "cdef GEN %s = %s.g", tmp, name)
		case !a.Optional():
			line(0, "%s = objtogen(%s)", name, name)
			line(0, "cdef GEN %s = (<gen>%s).g", tmp, name)
		default:
			fallback, ok := genDefaults[a.Default]
			if !ok {
				return "", errors.Newf("no conversion for GEN %s with default %q", name, a.Default)
			}
			line(0, "cdef GEN %s = %s", tmp, fallback)
			line(0, "if %s is not None:", name)
			line(1, "%s = objtogen(%s)", name, name)
			line(1, "%s = (<gen>%s).g", tmp, name)
		}
	case proto.KindString:
		if !a.Optional() {
			line(0, "%s = str(%s)", name, name)
			line(0, "cdef char* %s = <bytes?>%s", tmp, name)
			break
		}
		line(0, "cdef char* %s = %s", tmp, a.Default)
		line(0, "if %s is not None:", name)
		line(1, "%s = str(%s)", name, name)
		line(1, "%s = <bytes?>%s", tmp, name)
	case proto.KindVariable:
		if !a.Optional() {
			line(0, "cdef long %s = pari_instance.get_var(%s)", tmp, name)
			break
		}
		line(0, "cdef long %s = %s", tmp, a.Default)
		line(0, "if %s is not None:", name)
		line(1, "%s = pari_instance.get_var(%s)", tmp, name)
	case proto.KindPrec:
		line(0, "%s = prec_bits_to_words(%s)", name, name)
	case proto.KindBitprec:
		line(0, "if not %s:", name)
		line(1, "%s = default_bitprec()", name)
	case proto.KindSeriesPrec:
		line(0, "if %s < 0:", name)
		line(1, "%s = precdl  # Global PARI series precision", name)
	case proto.KindVariadic:
		line(0, "%s = objtogen(list(%s))", name, name)
		line(0, "cdef GEN %s = (<gen>%s).g", tmp, name)
	case proto.KindLong, proto.KindULong:
	default:
		return "", errors.Newf("no conversion for argument %s of kind %s", name, a.Kind)
	}
	return b.String(), nil
}

// isReceiver reports whether a is the gen object the method is called on.
// It is never None, even when the prototype marks it optional.
func isReceiver(a proto.Argument, recv Receiver) bool {
	return recv == ReceiverValue && a.Index == 0
}

var genDefaults = map[string]string{
	"NULL": "NULL",
	"0":    "gen_0",
}

func callCode(a proto.Argument) (string, error) {
	switch a.Kind {
	case proto.KindGEN, proto.KindString, proto.KindVariable, proto.KindVariadic:
		return a.TempName(), nil
	case proto.KindLong, proto.KindULong, proto.KindPrec, proto.KindBitprec, proto.KindSeriesPrec:
		return a.Name, nil
	}
	return "", errors.Newf("argument %s of kind %s cannot be passed to C", a.Name, a.Kind)
}

func resultCode(call string, ret proto.Return) (string, error) {
	var b strings.Builder
	switch ret.Kind {
	case proto.ReturnGEN:
		fmt.Fprintf(&b, "%scdef GEN _ret = %s\n", indentBody, call)
		fmt.Fprintf(&b, "%sreturn pari_instance.new_gen(_ret)\n", indentBody)
	case proto.ReturnMember:
		fmt.Fprintf(&b, "%scdef GEN _ret = %s\n", indentBody, call)
		fmt.Fprintf(&b, "%s_ret = gcopy(_ret)\n", indentBody)
		fmt.Fprintf(&b, "%sreturn pari_instance.new_gen(_ret)\n", indentBody)
	case proto.ReturnInt, proto.ReturnLong, proto.ReturnULong:
		fmt.Fprintf(&b, "%scdef %s _ret = %s\n", indentBody, ret.Kind.CType(), call)
		fmt.Fprintf(&b, "%spari_instance.clear_stack()\n", indentBody)
		fmt.Fprintf(&b, "%sreturn _ret\n", indentBody)
	case proto.ReturnVoid:
		fmt.Fprintf(&b, "%s%s\n", indentBody, call)
		fmt.Fprintf(&b, "%spari_instance.clear_stack()\n", indentBody)
	default:
		return "", errors.Newf("no result handling for return kind %s", ret.Kind)
	}
	return b.String(), nil
}
