package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/teranos/parigen/errors"
)

// CheckResult holds the result of comparing a fresh run with the files on disk.
type CheckResult struct {
	UpToDate    bool
	Differences []string // canonical paths that differ or are missing
	Result      *Result
}

// Check generates into a temporary directory and compares the output with
// the files at opts.ValuePath and opts.EnginePath. Nothing outside the
// temporary directory is written.
func Check(opts Options) (*CheckResult, error) {
	tempDir, err := os.MkdirTemp("", "parigen-check-")
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary directory")
	}
	defer os.RemoveAll(tempDir)

	canonical := map[string]string{
		filepath.Join(tempDir, "value", filepath.Base(opts.ValuePath)):   opts.ValuePath,
		filepath.Join(tempDir, "engine", filepath.Base(opts.EnginePath)): opts.EnginePath,
	}
	tempOpts := opts
	tempOpts.ValuePath = filepath.Join(tempDir, "value", filepath.Base(opts.ValuePath))
	tempOpts.EnginePath = filepath.Join(tempDir, "engine", filepath.Base(opts.EnginePath))

	g, err := New(tempOpts)
	if err != nil {
		return nil, err
	}
	res, err := g.Run()
	if err != nil {
		return &CheckResult{Result: res}, err
	}

	var diffs []string
	for _, generated := range []string{tempOpts.ValuePath, tempOpts.EnginePath} {
		existing := canonical[generated]
		different, err := filesAreDifferent(generated, existing)
		if err != nil {
			diffs = append(diffs, existing+" (error: "+err.Error()+")")
		} else if different {
			diffs = append(diffs, existing)
		}
	}

	return &CheckResult{
		UpToDate:    len(diffs) == 0,
		Differences: diffs,
		Result:      res,
	}, nil
}

// filesAreDifferent compares two files byte for byte.
func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	return !bytes.Equal(content1, content2), nil
}
