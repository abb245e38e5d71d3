package headers

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPatterns matches every header below the scan root.
var DefaultPatterns = []string{"**.h"}

// DefaultIgnores skips the usual build and dependency output.
var DefaultIgnores = []string{"build/**", "**/build/**", ".git/**", "**/.git/**"}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds header files below a root directory, filtered by
// include and ignore glob patterns over slash-separated relative paths.
type Discovery struct {
	rootDir  string
	includes []compiledPattern
	ignores  []compiledPattern
}

// NewDiscovery compiles the pattern sets. Empty slices fall back to the
// defaults.
func NewDiscovery(rootDir string, includes, ignores []string) (*Discovery, error) {
	if len(includes) == 0 {
		includes = DefaultPatterns
	}
	if len(ignores) == 0 {
		ignores = DefaultIgnores
	}
	d := &Discovery{rootDir: rootDir}
	for _, pattern := range includes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.includes = append(d.includes, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignores {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignores = append(d.ignores, compiledPattern{pattern: pattern, glob: g})
	}
	return d, nil
}

// Discover walks the root and returns matching header paths relative to
// it, sorted for deterministic extraction order.
func (d *Discovery) Discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(d.rootDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if entry.IsDir() {
			if d.ignored(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".h") {
			return nil
		}
		if d.ignored(rel) {
			return nil
		}
		for _, p := range d.includes {
			if p.glob.Match(rel) {
				files = append(files, rel)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (d *Discovery) ignored(rel string) bool {
	for _, p := range d.ignores {
		if p.glob.Match(rel) {
			return true
		}
	}
	return false
}
