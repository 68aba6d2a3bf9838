package gen

import (
	"bytes"
	"fmt"

	"github.com/teranos/parigen/errors"
)

const bannerTemplate = `# This file is auto-generated by parigen

cdef class %[1]s_auto:
    """
    Part of the :class:%[2]s class containing auto-generated functions.

    This class is not meant to be used directly, use the derived class
    :class:%[2]s instead.
    """
`

// Banner returns the fixed header of the file holding methods of recv.
func Banner(recv Receiver) string {
	class := ClassName(recv)
	return fmt.Sprintf(bannerTemplate, class, "`"+class+"`")
}

// ClassName is the Cython class that receives the methods.
func ClassName(recv Receiver) string {
	if recv == ReceiverEngine {
		return "PariInstance"
	}
	return "gen"
}

// OutputFile accumulates one generated file in memory. It is only written
// to disk by the commit step.
type OutputFile struct {
	Path     string
	Receiver Receiver

	buf     bytes.Buffer
	methods []string
}

// NewOutputFile starts a file with its banner.
func NewOutputFile(path string, recv Receiver) *OutputFile {
	f := &OutputFile{Path: path, Receiver: recv}
	f.buf.WriteString(Banner(recv))
	return f
}

// Append adds a method block. Names must arrive in strictly increasing
// order.
func (f *OutputFile) Append(name, text string) error {
	if n := len(f.methods); n > 0 && f.methods[n-1] >= name {
		return errors.NewEmissionDefect("%s appended after %s in %s", name, f.methods[n-1], f.Path)
	}
	f.buf.WriteString(text)
	f.methods = append(f.methods, name)
	return nil
}

// Bytes returns the accumulated content.
func (f *OutputFile) Bytes() []byte {
	return f.buf.Bytes()
}

// Methods returns the method names in file order.
func (f *OutputFile) Methods() []string {
	return append([]string(nil), f.methods...)
}
