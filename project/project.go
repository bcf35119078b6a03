// Package project reads the aidl.yaml file describing where a project keeps
// its interfaces and how they are compiled.
package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dhamidi/aidl/aidl"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked for in the project root.
const FileName = "aidl.yaml"

// Project is the configuration of a directory tree of .aidl files. Paths are
// relative to RootDir.
type Project struct {
	RootDir    string `yaml:"-"`
	ConfigFile string `yaml:"-"`

	// Sources are directories searched for the files to compile.
	Sources      []string `yaml:"sources"`
	ImportPaths  []string `yaml:"import_paths,omitempty"`
	Preprocessed []string `yaml:"preprocessed,omitempty"`
	Structured   bool     `yaml:"structured"`
	Lang         string   `yaml:"lang"`
	Output       string   `yaml:"output"`
	LSP          LSP      `yaml:"lsp"`
}

type LSP struct {
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default is the configuration used when there is no aidl.yaml.
func Default(rootDir string) *Project {
	return &Project{
		RootDir: rootDir,
		Sources: []string{"."},
		Lang:    "java",
		Output:  "out",
		LSP: LSP{
			Watch:    true,
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Load reads the project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads rootDir/aidl.yaml, falling back to the defaults when the
// file does not exist.
func LoadFrom(rootDir string) (*Project, error) {
	path := filepath.Join(rootDir, FileName)
	p, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(rootDir), nil
	}
	return p, err
}

// LoadFile reads a configuration file. Its directory is the project root.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := Default(filepath.Dir(path))
	p.ConfigFile = path
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if p.Lang == "" {
		return nil, fmt.Errorf("read %s: lang must not be empty", path)
	}
	return p, nil
}

// Write writes the configuration as YAML.
func (p *Project) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// Path resolves a path from the configuration against the project root.
func (p *Project) Path(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.RootDir, path)
}

func (p *Project) paths(list []string) []string {
	result := make([]string, 0, len(list))
	for _, path := range list {
		result = append(result, p.Path(path))
	}
	return result
}

// Files lists every .aidl file under the source directories, sorted. Output
// directories are skipped.
func (p *Project) Files() ([]string, error) {
	output := filepath.Clean(p.Path(p.Output))
	var files []string
	for _, src := range p.paths(p.Sources) {
		err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if filepath.Clean(path) == output || (path != src && strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".aidl") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", src, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// LoadOptions turns the configuration into options for aidl.LoadAndValidate.
// The source directories double as import paths.
func (p *Project) LoadOptions() []aidl.LoadOption {
	importPaths := append(p.paths(p.ImportPaths), p.paths(p.Sources)...)
	opts := []aidl.LoadOption{
		aidl.WithImportPaths(importPaths...),
		aidl.WithStructured(p.Structured),
	}
	if len(p.Preprocessed) > 0 {
		opts = append(opts, aidl.WithPreprocessed(p.paths(p.Preprocessed)...))
	}
	return opts
}
