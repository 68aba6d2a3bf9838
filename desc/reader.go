package desc

import (
	"bufio"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

// Store supplies the raw descriptor records of one generation run.
type Store interface {
	ReadAll() ([]Record, error)
}

// FileStore reads records from a pari.desc file.
type FileStore struct {
	Path   string
	Logger *zap.SugaredLogger
}

// NewFileStore creates a store reading the pari.desc file at path.
func NewFileStore(path string, log *zap.SugaredLogger) *FileStore {
	return &FileStore{Path: path, Logger: log}
}

// ReadAll parses the whole file. Any failure is a store failure.
func (s *FileStore) ReadAll() ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, errors.WithHint(
			errors.WrapStoreFailure(err, "failed to open descriptor file"),
			"pari.desc is installed in PARI's share directory; set desc.path in parigen.toml",
		)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", s.Path)
	}

	if s.Logger != nil {
		s.Logger.Infow("Read descriptor file",
			logger.FieldPath, s.Path,
			logger.FieldCount, len(records),
		)
	}
	return records, nil
}

// Parse reads pari.desc records.
//
// Records are separated by blank lines. Each field is "Key: value"; lines
// starting with a space continue the previous field. Keys are lower-cased
// and stripped of dashes ("C-Name" becomes "cname"), values are trimmed.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []Record
	current := Record{}
	var key string
	var value strings.Builder
	lineNo := 0

	flushField := func() {
		if key != "" {
			current[key] = strings.TrimSpace(value.String())
		}
		key = ""
		value.Reset()
	}
	flushRecord := func() {
		flushField()
		if len(current) > 0 {
			records = append(records, current)
		}
		current = Record{}
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case line == "":
			flushRecord()
		case strings.HasPrefix(line, " "):
			if key == "" {
				return nil, errors.NewStoreFailure("line %d: continuation line outside of a field", lineNo)
			}
			value.WriteString("\n")
			value.WriteString(line[1:])
		default:
			flushField()
			k, v, ok := strings.Cut(line, ":")
			if !ok {
				return nil, errors.NewStoreFailure("line %d: expected \"Key: value\", got %q", lineNo, line)
			}
			key = normalizeKey(k)
			value.WriteString(v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapStoreFailure(err, "scan descriptor file")
	}
	flushRecord()

	return records, nil
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "")
}
