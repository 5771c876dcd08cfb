package flutter

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultInclude is the glob scanned when no include patterns are
// configured.
const DefaultInclude = "lib/**/*.dart"

// Project is the result of scanning a Flutter project tree.
type Project struct {
	Root     string    `json:"root"`
	App      string    `json:"app"`
	Pubspec  Pubspec   `json:"pubspec"`
	Files    int       `json:"files"`
	Elements []Element `json:"elements"`
}

// Pubspec is the subset of pubspec.yaml the auditor cares about. The
// name field is the app identity that app-specific rules key on.
type Pubspec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadPubspec reads pubspec.yaml from the project root. A missing file
// is not an error; the zero value is returned.
func LoadPubspec(root string) (Pubspec, error) {
	data, err := os.ReadFile(filepath.Join(root, "pubspec.yaml")) //nolint:gosec // root is caller-provided project path
	if os.IsNotExist(err) {
		return Pubspec{}, nil
	}
	if err != nil {
		return Pubspec{}, fmt.Errorf("flutter: read pubspec: %w", err)
	}

	var p Pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pubspec{}, fmt.Errorf("flutter: parse pubspec: %w", err)
	}

	return p, nil
}

// ScanProject walks root and extracts elements from every Dart file
// matching the include globs and none of the exclude globs. Patterns
// are doublestar globs matched against slash-separated paths relative
// to root; an empty include list scans lib/**/*.dart.
func ScanProject(ctx context.Context, root string, include, exclude []string) (Project, error) {
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}

	pubspec, err := LoadPubspec(root)
	if err != nil {
		return Project{}, err
	}

	proj := Project{
		Root:    root,
		App:     pubspec.Name,
		Pubspec: pubspec,
	}
	if proj.App == "" {
		proj.App = filepath.Base(root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip inaccessible paths
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			// Hidden directories and Dart build output never hold app code.
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "build") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil //nolint:nilerr // outside the tree, skip
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}

		src, readErr := os.ReadFile(path) //nolint:gosec // path comes from the walk
		if readErr != nil {
			return nil //nolint:nilerr // unreadable file, skip
		}

		proj.Files++
		proj.Elements = append(proj.Elements, ScanSource(rel, src)...)

		return nil
	})
	if err != nil {
		return Project{}, fmt.Errorf("flutter: scan %s: %w", root, err)
	}

	return proj, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
