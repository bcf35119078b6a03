package codebase

import (
	"slices"
	"strings"
	"sync"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/project"
)

// Codebase indexes the .aidl files of a project. Buffers opened in an editor
// take precedence over the contents on disk.
type Codebase struct {
	mu      sync.RWMutex
	project *project.Project
	overlay *aidl.Overlay
	files   map[string]*FileInfo
	open    map[string]bool
}

type FileInfo struct {
	Path        string
	Content     []byte
	Types       []aidl.DefinedType
	Diagnostics []*aidl.Diagnostic
}

func New(p *project.Project) *Codebase {
	return NewWithIO(p, aidl.OSDelegate{})
}

// NewWithIO creates a codebase that reads files through io.
func NewWithIO(p *project.Project, io aidl.IODelegate) *Codebase {
	return &Codebase{
		project: p,
		overlay: aidl.NewOverlay(io),
		files:   make(map[string]*FileInfo),
		open:    make(map[string]bool),
	}
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

func (c *Codebase) ScanAll() error {
	files, err := c.project.Files()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := c.ScanFile(path); err != nil {
			lspLog.Warningf("scan %s: %s", path, err)
		}
	}
	return nil
}

// ScanFile re-reads path from disk. Files open in the editor are left alone.
func (c *Codebase) ScanFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open[path] {
		return nil
	}
	content, err := c.overlay.Base.ReadFile(path)
	if err != nil {
		return err
	}
	c.indexLocked(path, content)
	return nil
}

// OpenFile indexes the editor's buffer for path.
func (c *Codebase) OpenFile(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open[path] = true
	c.overlay.Set(path, content)
	c.indexLocked(path, content)
}

// UpdateFile replaces the contents of path without marking it as open.
func (c *Codebase) UpdateFile(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlay.Set(path, content)
	c.indexLocked(path, content)
}

// CloseFile drops the editor's buffer and falls back to the file on disk.
func (c *Codebase) CloseFile(path string) {
	c.mu.Lock()
	delete(c.open, path)
	c.overlay.Delete(path)
	c.mu.Unlock()

	if err := c.ScanFile(path); err != nil {
		c.RemoveFile(path)
	}
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	delete(c.open, path)
	c.overlay.Delete(path)
}

// RemoveClosedFile drops path unless the editor has it open, and reports
// whether it did.
func (c *Codebase) RemoveClosedFile(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[path] {
		return false
	}
	delete(c.files, path)
	c.overlay.Delete(path)
	return true
}

// Reindex validates every known file again, e.g. after an import changed on
// disk. It returns the paths that were checked.
func (c *Codebase) Reindex() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	paths := make([]string, 0, len(c.files))
	for path, f := range c.files {
		c.indexLocked(path, f.Content)
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

func (c *Codebase) indexLocked(path string, content []byte) {
	info := &FileInfo{Path: path, Content: content}

	result, err := aidl.LoadAndValidate(c.overlay, path, c.project.LoadOptions()...)
	if err == nil {
		info.Types = result.Document.DefinedTypes
	} else {
		info.Diagnostics = aidl.Diagnostics(err)
		// Keep whatever parses so completion still knows the types.
		p := aidl.NewParser(c.overlay, aidl.NewTypenames())
		if p.ParseFile(path) == nil {
			info.Types = p.Document().DefinedTypes
		}
	}
	lspLog.Debugf("indexed %s: %d types, %d diagnostics", path, len(info.Types), len(info.Diagnostics))
	c.files[path] = info
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

func (c *Codebase) Diagnostics(path string) []*aidl.Diagnostic {
	if f := c.GetFile(path); f != nil {
		return f.Diagnostics
	}
	return nil
}

// Types returns every type defined by an indexed file, sorted by canonical
// name.
func (c *Codebase) Types() []aidl.DefinedType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var all []aidl.DefinedType
	for _, f := range c.files {
		all = append(all, f.Types...)
	}
	slices.SortFunc(all, func(a, b aidl.DefinedType) int {
		return strings.Compare(a.CanonicalName(), b.CanonicalName())
	})
	return all
}

func (c *Codebase) FindType(name string) aidl.DefinedType {
	for _, t := range c.Types() {
		if t.CanonicalName() == name || t.Name() == name {
			return t
		}
	}
	return nil
}

type CompletionKind int

const (
	CompletionKindType CompletionKind = iota
	CompletionKindInterface
	CompletionKindParcelable
	CompletionKindAnnotation
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// CompletionsAtPoint offers the names that fit the word ending at line and
// column (1-based line, 0-based column). After '@' only annotations are
// offered.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	prefix, annotation, ok := wordBefore(f.Content, line, column)
	if !ok {
		return nil
	}

	var items []CompletionItem
	add := func(item CompletionItem) {
		if strings.HasPrefix(item.Label, prefix) {
			items = append(items, item)
		}
	}

	if annotation {
		for _, name := range aidl.AnnotationNames {
			add(CompletionItem{Label: name, Kind: CompletionKindAnnotation, Detail: "@" + name, InsertText: name})
		}
		return items
	}

	for _, name := range aidl.BuiltinTypenames() {
		add(CompletionItem{Label: name, Kind: CompletionKindType, Detail: "builtin", InsertText: name})
	}
	seen := map[string]bool{}
	for _, t := range c.Types() {
		kind := CompletionKindParcelable
		if _, ok := t.(*aidl.Interface); ok {
			kind = CompletionKindInterface
		}
		detail := t.PreprocessDeclarationName() + " " + t.CanonicalName()
		for _, label := range []string{t.Name(), t.CanonicalName()} {
			if seen[label] {
				continue
			}
			seen[label] = true
			add(CompletionItem{Label: label, Kind: kind, Detail: detail, InsertText: label})
		}
	}
	return items
}

// wordBefore returns the qualified name ending at column and whether it is
// preceded by '@'.
func wordBefore(content []byte, line, column int) (string, bool, bool) {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return "", false, false
	}
	text := strings.TrimSuffix(lines[line-1], "\r")
	column = max(0, min(column, len(text)))
	start := column
	for start > 0 && isNameByte(text[start-1]) {
		start--
	}
	annotation := start > 0 && text[start-1] == '@'
	return text[start:column], annotation, true
}

func isNameByte(b byte) bool {
	return b == '_' || b == '.' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
