package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/project"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "aidl"

var lspLog = commonlog.GetLogger("aidl.lsp")

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu     sync.Mutex
	notify glsp.NotifyFunc
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	p, err := project.LoadFrom(rootDir)
	if err != nil {
		lspLog.Errorf("%s, using defaults", err)
		p = project.Default(rootDir)
	}
	ls.codebase = New(p)
	ls.setNotify(ctx.Notify)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"@", "."},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setNotify(ctx.Notify)
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Errorf("scan: %s", err)
	}

	p := ls.codebase.Project()
	if !p.LSP.Watch {
		return nil
	}
	w, err := NewFileWatcher(ls.codebase, p.LSP.Debounce, ls.publishAll)
	if err != nil {
		lspLog.Errorf("watch %s: %s", p.RootDir, err)
		return nil
	}
	ls.watcher = w
	return w.Start()
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.OpenFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx.Notify, path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.OpenFile(path, []byte(textChange.Text))
			ls.publish(ctx.Notify, path)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.CloseFile(path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.OpenFile(path, []byte(*params.Text))
	}
	// Other files may import the one just saved.
	ls.publishAll(ls.codebase.Reindex())
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)

	completions := ls.codebase.CompletionsAtPoint(path, line, col)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText

		items = append(items, protocol.CompletionItem{
			Label:      c.Label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
		})
	}

	return items, nil
}

func (ls *LSPServer) setNotify(notify glsp.NotifyFunc) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if notify != nil {
		ls.notify = notify
	}
}

// publishAll sends diagnostics for paths using the connection's notifier.
func (ls *LSPServer) publishAll(paths []string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	for _, path := range paths {
		ls.publish(notify, path)
	}
}

func (ls *LSPServer) publish(notify glsp.NotifyFunc, path string) {
	diagnostics := ls.codebase.Diagnostics(path)
	lspLog.Debugf("publishing %d diagnostics for %s", len(diagnostics), path)
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(pathToURI(path)),
		Diagnostics: toProtocolDiagnostics(path, diagnostics),
	})
}

// toProtocolDiagnostics converts diagnostics found while loading path.
// Diagnostics located in other files, such as a broken import, are shown at
// the top of path with their location in the message.
func toProtocolDiagnostics(path string, diagnostics []*aidl.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diagnostics))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, d := range diagnostics {
		message := d.Message
		var rng protocol.Range
		if sameFile(d.Location.File, path) && d.Location.HasPosition() {
			rng = toProtocolRange(d.Location)
		} else if d.Location.File != "" {
			message = d.Error()
		}
		result = append(result, protocol.Diagnostic{
			Range:    rng,
			Severity: &severity,
			Source:   &source,
			Message:  message,
		})
	}
	return result
}

// toProtocolRange converts a 1-based location whose end column points past
// the last character into a 0-based LSP range.
func toProtocolRange(loc aidl.Location) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      protocol.UInteger(max(loc.Begin.Line-1, 0)),
			Character: protocol.UInteger(max(loc.Begin.Column-1, 0)),
		},
		End: protocol.Position{
			Line:      protocol.UInteger(max(loc.End.Line-1, 0)),
			Character: protocol.UInteger(max(loc.End.Column-1, 0)),
		},
	}
}

func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindInterface:
		return protocol.CompletionItemKindInterface
	case CompletionKindParcelable:
		return protocol.CompletionItemKindStruct
	case CompletionKindAnnotation:
		return protocol.CompletionItemKindProperty
	case CompletionKindType:
		return protocol.CompletionItemKindClass
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
