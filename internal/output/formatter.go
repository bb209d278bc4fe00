package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/payarrear/arrear-calculator/internal/domain"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(st *domain.Statement) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.Statement) ([]byte, error)
}

func (ff FormatterFunc) Format(st *domain.Statement) ([]byte, error) { return ff.F(st) }
func (ff FormatterFunc) Name() string                                { return ff.ID }

// nowFunc stamps written file names; tests replace it.
var nowFunc = time.Now

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// WriteFormatted runs a formatter and writes output to a timestamped file with extension in dir.
func WriteFormatted(dir string, f Formatter, st *domain.Statement, ext string) (string, error) {
	data, err := f.Format(st)
	if err != nil {
		return "", err
	}
	id := unsafeFileChars.ReplaceAllString(st.Employee.ID, "_")
	if id == "" {
		id = "unnamed"
	}
	filename := filepath.Join(dir, fmt.Sprintf("arrear_statement_%s_%s.%s", id, nowFunc().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVDetailedExporter{},
	CSVSummarizer{},
	HTMLFormatter{},
	JSONFormatter{},
	PDFFormatter{},
	XLSXFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":         "console",
	"txt":          "console",
	"verbose":      "console-verbose",
	"csv-detailed": "csv",
	"csv-summary":  "summary-csv",
	"html-report":  "html",
	"json-pretty":  "json",
	"print":        "pdf",
	"excel":        "xlsx",
	"spreadsheet":  "xlsx",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extensions maps canonical formatter names to the file extension they are written with.
// Formatters sharing a file type get a qualifier so "all" never writes one name twice.
var extensions = map[string]string{
	"console":         "txt",
	"console-verbose": "verbose.txt",
	"csv":             "csv",
	"summary-csv":     "summary.csv",
	"html":            "html",
	"json":            "json",
	"pdf":             "pdf",
	"xlsx":            "xlsx",
}

// Extension returns the file extension for a formatter name or alias.
func Extension(name string) string {
	if ext, ok := extensions[NormalizeFormatName(name)]; ok {
		return ext
	}
	return "txt"
}

var contentTypes = map[string]string{
	"txt":  "text/plain; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
	"html": "text/html; charset=utf-8",
	"json": "application/json",
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ContentType returns the MIME type served for a formatter name or alias.
func ContentType(name string) string {
	ext := Extension(name)
	return contentTypes[ext[strings.LastIndex(ext, ".")+1:]]
}
