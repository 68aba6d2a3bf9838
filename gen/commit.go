package gen

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

const tmpSuffix = ".tmp"

// rename is swapped out in tests to simulate a failing filesystem.
var rename = os.Rename

// commitFiles writes every file to <path>.tmp and then renames them into
// place in argument order. On failure no temporary file is left behind; a
// canonical file is only replaced once its own rename succeeded.
func commitFiles(log *zap.SugaredLogger, files ...*OutputFile) error {
	pending := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range pending {
			if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
				log.Warnw("Failed to remove temporary file", logger.FieldPath, tmp, logger.FieldError, err)
			}
		}
	}

	for _, f := range files {
		tmp := f.Path + tmpSuffix
		pending = append(pending, tmp)
		if err := writeSynced(tmp, f.Bytes()); err != nil {
			cleanup()
			return errors.Wrapf(err, "writing %s", tmp)
		}
	}

	for i, f := range files {
		tmp := pending[i]
		if err := rename(tmp, f.Path); err != nil {
			pending = pending[i:]
			cleanup()
			return errors.Wrapf(err, "replacing %s", f.Path)
		}
		log.Debugw("Committed output file",
			logger.FieldFile, f.Path,
			logger.FieldBytes, len(f.Bytes()),
			logger.FieldCount, len(f.Methods()))
	}
	return nil
}

func writeSynced(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Sync(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// writeFileAtomic replaces path with data through a synced temporary file.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + tmpSuffix
	if err := writeSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
