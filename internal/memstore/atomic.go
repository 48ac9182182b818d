package memstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteJSONAtomic pretty-prints v as UTF-8, LF-terminated JSON and writes it
// to path via a sibling temp file + rename, so a run interrupted between
// read and write never leaves a torn file behind.
func WriteJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("memstore: create dir for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("memstore: marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("memstore: write temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("memstore: rename temp file for %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes raw bytes to path via a sibling temp file + rename,
// the same crash-safety as WriteJSONAtomic for callers (e.g. the reasoning
// stream's compaction rewrite) that already have serialized bytes.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("memstore: create dir for %s: %w", path, err)
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("memstore: write temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("memstore: rename temp file for %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads path into v. A missing file is treated as "nothing to
// load" and reports (false, nil); callers fall back to a zero-value
// default. Malformed JSON is a real error — callers that want "degrade to
// empty" semantics should use Degrade around this call, except for
// load-bundle style callers that must surface the error.
func ReadJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("memstore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("memstore: parse %s: %w", path, err)
	}
	return true, nil
}

// AppendLine appends a single line (newline added) to path, creating the
// file and parent directory if necessary. Used for append-only logs
// (reasoning stream, trace).
func AppendLine(path string, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("memstore: create dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("memstore: open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("memstore: append %s: %w", path, err)
	}
	return nil
}

// ReadLines returns the non-empty lines of path, or an empty slice if the
// file does not exist. Never returns an error for a missing file.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("memstore: read %s: %w", path, err)
	}
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			line := string(data[start:i])
			if line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	if start < len(data) {
		line := string(data[start:])
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Degrade runs fn and, on error, logs at debug via the caller-supplied
// logf and returns the zero value of T — the shared "never fatal, log and
// continue" idiom used at every collector/loader/renderer boundary.
func Degrade[T any](logf func(format string, args ...any), context string, fn func() (T, error)) T {
	v, err := fn()
	if err != nil {
		var zero T
		if logf != nil {
			logf("degraded %s: %v", context, err)
		}
		return zero
	}
	return v
}
