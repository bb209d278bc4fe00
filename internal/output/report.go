package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name with no registered formatter.
var ErrUnsupportedFormat = errors.New("unsupported output format")

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// Render formats a statement in memory, for callers that stream the result.
func Render(st *domain.Statement, format string) ([]byte, Formatter, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, nil, unsupported(format)
	}
	data, err := f.Format(st)
	if err != nil {
		return nil, nil, fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	return data, f, nil
}

// GenerateReport writes a statement to dir in the named format and returns the file written.
// The pseudo-format "all" writes every registered formatter.
func GenerateReport(st *domain.Statement, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, name := range AvailableFormatterNames() {
			path, err := WriteFormatted(dir, GetFormatterByName(name), st, Extension(name))
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
		return written, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	path, err := WriteFormatted(dir, f, st, Extension(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
