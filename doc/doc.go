// Package doc supplies the documentation text placed in each generated
// method. The text is treated as opaque: it is cleaned up, never parsed.
package doc

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

// Extractor returns the documentation of a function, or "" when there is none.
type Extractor interface {
	Extract(function string) (string, error)
}

// Clean normalises extracted text: NFC, no trailing whitespace on any line,
// no leading or trailing blank lines.
func Clean(text string) string {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// DescriptorDocs serves the raw Doc field of each descriptor.
type DescriptorDocs struct {
	docs map[string]string
}

// NewDescriptorDocs indexes the documentation of ds by function name.
func NewDescriptorDocs(ds []desc.Descriptor) *DescriptorDocs {
	docs := make(map[string]string, len(ds))
	for _, d := range ds {
		docs[d.Name] = d.Doc
	}
	return &DescriptorDocs{docs: docs}
}

// Extract returns the cleaned Doc field of function.
func (d *DescriptorDocs) Extract(function string) (string, error) {
	return Clean(d.docs[function]), nil
}

// Placeholder in a doc command that is replaced by the function name.
const Placeholder = "{function}"

// CommandDocs runs an external formatter (for instance PARI's gphelp) once
// per function and uses its standard output.
type CommandDocs struct {
	argv []string
	log  *zap.SugaredLogger
}

// NewCommandDocs parses a shell-style command line. If it contains no
// {function} placeholder the function name is appended as last argument.
func NewCommandDocs(command string, log *zap.SugaredLogger) (*CommandDocs, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid doc command %q", command)
	}
	if len(argv) == 0 {
		return nil, errors.New("empty doc command")
	}
	return &CommandDocs{argv: argv, log: log}, nil
}

// Argv returns the command line used for function.
func (c *CommandDocs) Argv(function string) []string {
	out := make([]string, 0, len(c.argv)+1)
	substituted := false
	for _, a := range c.argv {
		if strings.Contains(a, Placeholder) {
			a = strings.ReplaceAll(a, Placeholder, function)
			substituted = true
		}
		out = append(out, a)
	}
	if !substituted {
		out = append(out, function)
	}
	return out
}

// Extract runs the command. A failing command is an error: the output of a
// run must not depend on which lookups happened to fail.
func (c *CommandDocs) Extract(function string) (string, error) {
	argv := c.Argv(function)
	cmd := exec.Command(argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", errors.WithDetail(
			errors.Wrapf(err, "doc command for %s", function),
			strings.TrimSpace(stderr.String()),
		)
	}

	if c.log != nil {
		c.log.Debugw("Extracted documentation",
			logger.FieldFunction, function,
			logger.FieldBytes, len(out),
		)
	}
	return Clean(string(out)), nil
}
