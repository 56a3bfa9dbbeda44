// Package report parses the analyzer's textual output into structured
// records. Each line of a report is "label: value" where value is a
// literal: a number, a boolean (lowercase or capitalized spelling), a
// quoted string, or an arbitrarily nested list or tuple of literals.
package report

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fbaseval/internal/logging"
)

// Value is one decoded literal: bool, int64, float64, string or []Value.
type Value any

// Record maps report labels to their decoded values. Absent labels are a
// normal condition; no schema is enforced at parse time.
type Record map[string]Value

// Parse reads a report line by line. Lines that fail to parse are skipped
// with a diagnostic; the rest of the report is still processed.
func Parse(r io.Reader) (Record, error) {
	logger := logging.New("parse")

	rec := make(Record)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		label, raw, found := strings.Cut(line, ": ")
		if !found {
			logger.Warn("skipping malformed line", "line", lineno, "text", line)
			continue
		}

		value, err := ParseLiteral(raw)
		if err != nil {
			logger.Warn("skipping unparseable value",
				"line", lineno, "label", label, slog.String("error", err.Error()))
			continue
		}
		rec[label] = value
	}
	if err := scanner.Err(); err != nil {
		return rec, fmt.Errorf("read report: %w", err)
	}

	return rec, nil
}

// ParseFile opens, parses and closes one report artifact.
func ParseFile(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
