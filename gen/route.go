package gen

import (
	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/proto"
)

// Receiver is the generated class a method is attached to.
type Receiver int

const (
	// ReceiverValue is the gen class: the function's first argument is a GEN.
	ReceiverValue Receiver = iota
	// ReceiverEngine is the PariInstance class: everything else.
	ReceiverEngine
)

func (r Receiver) String() string {
	if r == ReceiverEngine {
		return "engine"
	}
	return "value"
}

// Routed is a parsed descriptor with its receiver decided.
type Routed struct {
	Receiver Receiver
	// Args is the full signature, including self for engine methods.
	Args proto.Arguments
	// CallArgs are the arguments passed to the C function.
	CallArgs proto.Arguments
	Return   proto.Return
}

// Route parses the prototype of d and picks its receiver.
//
// Functions whose first argument is a GEN become methods of gen, with that
// argument as receiver. All others become methods of PariInstance: the
// prototype is parsed again with a synthetic self argument, which is part
// of the signature but never passed to C.
func Route(d desc.Descriptor, opts proto.Options) (Routed, error) {
	opts.Self = false
	args, ret, err := proto.Parse(d.Prototype, d.Help, opts)
	if err != nil {
		return Routed{}, err
	}

	if len(args) > 0 && args[0].Kind == proto.KindGEN {
		return Routed{
			Receiver: ReceiverValue,
			Args:     args,
			CallArgs: args,
			Return:   ret,
		}, nil
	}

	opts.Self = true
	args, ret, err = proto.Parse(d.Prototype, d.Help, opts)
	if err != nil {
		return Routed{}, err
	}
	return Routed{
		Receiver: ReceiverEngine,
		Args:     args,
		CallArgs: args[1:],
		Return:   ret,
	}, nil
}
