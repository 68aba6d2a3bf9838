// Package gen turns PARI function descriptors into Cython wrapper methods.
//
// A run reads every descriptor from a desc.Store, filters out functions that
// cannot be exposed, routes the rest to the gen class (first argument is a
// GEN) or the PariInstance class, and emits one method per function into
// two files. Both files are replaced together at the end of a successful
// run; a failed run leaves them untouched.
package gen

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/doc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/filter"
	"github.com/teranos/parigen/logger"
	"github.com/teranos/parigen/proto"
)

// Default output file names.
const (
	DefaultValueFile  = "auto_gen.pxi"
	DefaultEngineFile = "auto_instance.pxi"
)

// State is the lifecycle of a run.
type State string

const (
	StateOpen       State = "open"
	StateProcessing State = "processing"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateAborted    State = "aborted"
)

// Options configures a Generator.
type Options struct {
	Store  desc.Store
	Filter *filter.Filter
	// Docs defaults to the Doc field of each descriptor.
	Docs doc.Extractor
	// Deprecations maps function name to argument name.
	Deprecations map[string]map[string]proto.Deprecation

	ValuePath  string
	EnginePath string

	// Progress receives the user-facing progress line; nil discards it.
	Progress io.Writer
	Logger   *zap.SugaredLogger
	// RunID defaults to a random UUID.
	RunID string
}

// Method is an emitted method.
type Method struct {
	Name     string   `yaml:"name"`
	Receiver Receiver `yaml:"-"`
}

// Rejection is a function the filter turned away.
type Rejection struct {
	Name   string        `yaml:"name"`
	Reason filter.Reason `yaml:"reason"`
}

// Skip is an eligible function whose prototype could not be handled.
type Skip struct {
	Name      string `yaml:"name"`
	Prototype string `yaml:"prototype"`
	Error     string `yaml:"error"`
}

// Result summarises a run.
type Result struct {
	RunID    string
	State    State
	Accepted []Method
	Rejected []Rejection
	Skipped  []Skip

	ValueMethods  int
	EngineMethods int
}

// Generator runs the pipeline once per Run call.
type Generator struct {
	opts    Options
	emitter *Emitter
	log     *zap.SugaredLogger
}

// New validates opts and prepares a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Store == nil {
		return nil, errors.New("generator needs a descriptor store")
	}
	if opts.Filter == nil {
		return nil, errors.New("generator needs a filter")
	}
	if opts.ValuePath == "" || opts.EnginePath == "" {
		return nil, errors.New("generator needs both output paths")
	}
	if opts.ValuePath == opts.EnginePath {
		return nil, errors.Newf("output paths must differ, both are %s", opts.ValuePath)
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	emitter, err := NewEmitter()
	if err != nil {
		return nil, err
	}
	return &Generator{opts: opts, emitter: emitter}, nil
}

// Run generates both files. The returned Result is never nil; its State
// is StateCommitted exactly when err is nil.
func (g *Generator) Run() (*Result, error) {
	runID := g.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	g.log = logger.ChildLogger(g.opts.Logger, logger.FieldRunID, runID)

	res := &Result{RunID: runID, State: StateOpen}
	files := map[Receiver]*OutputFile{
		ReceiverValue:  NewOutputFile(g.opts.ValuePath, ReceiverValue),
		ReceiverEngine: NewOutputFile(g.opts.EnginePath, ReceiverEngine),
	}

	abort := func(err error) (*Result, error) {
		res.State = StateAborted
		g.log.Errorw("Generation aborted", logger.FieldState, res.State, logger.FieldError, err)
		return res, err
	}

	records, err := g.opts.Store.ReadAll()
	if err != nil {
		return abort(errors.Mark(err, errors.ErrStoreFailure))
	}
	ds, err := desc.FromRecords(records, g.log)
	if err != nil {
		return abort(err)
	}
	ds = desc.Sorted(ds)

	docs := g.opts.Docs
	if docs == nil {
		docs = doc.NewDescriptorDocs(ds)
	}

	res.State = StateProcessing
	fmt.Fprint(g.opts.Progress, "Generating PARI functions:")
	for _, d := range ds {
		verdict := g.opts.Filter.Check(d)
		if err := verdict.Err(); err != nil {
			fmt.Fprintf(g.opts.Progress, " (%s)", d.Name)
			res.Rejected = append(res.Rejected, Rejection{Name: d.Name, Reason: verdict.Reason})
			g.log.Debugw("Function rejected",
				logger.FieldFunction, d.Name,
				logger.FieldReason, verdict.Reason,
				logger.FieldError, err)
			continue
		}

		fmt.Fprintf(g.opts.Progress, " %s", d.Name)
		m, text, err := g.handle(d, docs)
		if errors.IsFatal(err) {
			fmt.Fprintln(g.opts.Progress)
			return abort(err)
		}
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Name: d.Name, Prototype: d.Prototype, Error: err.Error()})
			g.log.Infow("Function skipped",
				logger.FieldFunction, d.Name,
				logger.FieldPrototype, d.Prototype,
				logger.FieldError, err)
			continue
		}
		if err := files[m.Receiver].Append(m.Name, text); err != nil {
			fmt.Fprintln(g.opts.Progress)
			return abort(err)
		}
		res.Accepted = append(res.Accepted, m)
	}
	fmt.Fprintln(g.opts.Progress)

	res.ValueMethods = len(files[ReceiverValue].Methods())
	res.EngineMethods = len(files[ReceiverEngine].Methods())

	res.State = StateCommitting
	if err := commitFiles(g.log, files[ReceiverValue], files[ReceiverEngine]); err != nil {
		return abort(err)
	}
	res.State = StateCommitted

	g.log.Infow("Generation committed",
		logger.FieldAccepted, len(res.Accepted),
		logger.FieldRejected, len(res.Rejected),
		logger.FieldSkipped, len(res.Skipped))
	return res, nil
}

func (g *Generator) handle(d desc.Descriptor, docs doc.Extractor) (Method, string, error) {
	r, err := Route(d, proto.Options{Deprecated: g.opts.Deprecations[d.Name]})
	if err != nil {
		return Method{}, "", err
	}
	g.log.Debugw("Function routed",
		logger.FieldFunction, d.Name,
		logger.FieldReceiver, r.Receiver,
		logger.FieldCName, d.CName)
	if logger.Tracing() {
		g.log.Debugw("Prototype parsed",
			logger.FieldFunction, d.Name,
			logger.FieldPrototype, d.Prototype,
			logger.FieldArgs, r.Args.Names(),
			logger.FieldReturn, r.Return.Kind.String())
	}

	text, err := docs.Extract(d.Name)
	if err != nil {
		return Method{}, "", errors.Wrapf(err, "extracting documentation of %s", d.Name)
	}
	out, err := g.emitter.Emit(d, r, text)
	if err != nil {
		return Method{}, "", err
	}
	return Method{Name: d.Name, Receiver: r.Receiver}, out, nil
}
