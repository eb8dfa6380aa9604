// Package lang has the language detector and the per-language profilers
// that extract build-system, framework, architecture and quality signals
// from source trees. Profilers are heuristics over line-oriented text, not
// parsers; false positives on unusual formatting are expected and accepted.
package lang

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/selwyntheo/fund-services-architect/schema"
)

// Profiler analyzes one language family within a repository tree.
// Implementations must degrade gracefully: a malformed manifest or an
// unreadable source file is skipped, never fatal for the whole profiler.
type Profiler interface {
	// Language returns the language tag this profiler handles.
	Language() schema.Language

	// Analyze walks the repository root and returns the profiler's metrics.
	// The context bounds any external tool invocation the profiler makes.
	Analyze(ctx context.Context, root string) (schema.MetricsMap, error)
}

// Sampling limits shared by profilers. Scanning every file of a large
// repository for annotations or credentials is wasteful; the originals of
// these heuristics sample a fixed prefix of the file list and we keep that.
const (
	frameworkSampleLimit = 50
	securitySampleLimit  = 50
	diSampleLimit        = 30

	// defaultToolTimeout bounds external lint tools. A timeout means the
	// tool is treated as unavailable, not as a scan failure.
	defaultToolTimeout = 2 * time.Minute
)

// registry maps language tags to profiler factories. New languages are
// added by registering a factory; the scan orchestrator never changes.
var registry = map[schema.Language]func() Profiler{
	schema.LangJava:       func() Profiler { return NewJavaProfiler() },
	schema.LangCSharp:     func() Profiler { return NewDotNetProfiler() },
	schema.LangPython:     func() Profiler { return NewPythonProfiler() },
	schema.LangJavaScript: func() Profiler { return NewJavaScriptProfiler() },
	schema.LangTypeScript: func() Profiler { return NewJavaScriptProfiler() },
}

// Register adds or replaces the profiler factory for a language.
func Register(language schema.Language, factory func() Profiler) {
	registry[language] = factory
}

// ProfilersFor returns one profiler per distinct implementation for the
// detected language set. JavaScript and TypeScript share a profiler, so a
// repository containing both still gets a single JS/TS pass.
func ProfilersFor(languages map[schema.Language]bool) []Profiler {
	var profilers []Profiler
	seen := make(map[schema.Language]bool)
	for language := range languages {
		factory, ok := registry[language]
		if !ok {
			continue
		}
		p := factory()
		if seen[p.Language()] {
			continue
		}
		seen[p.Language()] = true
		profilers = append(profilers, p)
	}
	return profilers
}

// extensionLanguages maps file extensions to language tags. Detection is
// membership-only; file contents are never inspected.
var extensionLanguages = map[string]schema.Language{
	".java": schema.LangJava,
	".cs":   schema.LangCSharp,
	".py":   schema.LangPython,
	".js":   schema.LangJavaScript,
	".jsx":  schema.LangJavaScript,
	".ts":   schema.LangTypeScript,
	".tsx":  schema.LangTypeScript,
	".go":   schema.LangGo,
	".rb":   schema.LangRuby,
	".php":  schema.LangPHP,
	".rs":   schema.LangRust,
	".kt":   schema.LangKotlin,
	".cpp":  schema.LangCPP,
	".cc":   schema.LangCPP,
	".cxx":  schema.LangCPP,
	".c":    schema.LangC,
	".swift": schema.LangSwift,
	".scala": schema.LangScala,
}

// skipDirNames are directory markers excluded from every tree walk:
// version control, dependency caches and build output.
var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"bin":          true,
	"obj":          true,
}

// SkipDir reports whether a directory entry should be excluded from walks.
func SkipDir(name string) bool {
	return skipDirNames[name]
}

// DetectLanguages walks the tree once and returns the set of languages
// present by extension. An unreadable root is surfaced to the caller;
// unreadable entries below it are skipped silently.
func DetectLanguages(root string) (map[schema.Language]bool, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	languages := make(map[schema.Language]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if language, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]; ok {
			languages[language] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return languages, nil
}

// collectFiles returns all files under root with one of the given
// extensions, honoring the standard directory exclusions. Read errors on
// individual entries are skipped.
func collectFiles(root string, extensions ...string) []string {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[ext] = true
	}

	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if extSet[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// collectAllFiles returns every regular file under root, honoring the
// shared directory skip list.
func collectAllFiles(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files
}

// readFileText reads a file as text, returning ok=false on any error so
// callers can skip the file's contribution without aborting.
func readFileText(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// sample returns the first n entries of files, or all of them when fewer.
func sample(files []string, n int) []string {
	if len(files) > n {
		return files[:n]
	}
	return files
}
