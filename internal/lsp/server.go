package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"wordlint/internal/config"
	"wordlint/internal/diag"
	"wordlint/internal/dict"
	"wordlint/internal/engine"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

const (
	diagnosticSource = "wordlint"

	cmdAddToDictionary    = "wordlint.addToDictionary"
	cmdAddAllToDictionary = "wordlint.addAllToDictionary"
	cmdIgnore             = "wordlint.ignore"
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Config is the project configuration loaded from wordlint.toml.
	// initializationOptions sent by the client override it field by field.
	Config  config.Config
	Version string
}

// Server handles stdio JSON-RPC for the wordlint LSP.
type Server struct {
	in      *bufio.Reader
	out     *bufio.Writer
	sendMu  sync.Mutex
	mu      sync.Mutex
	baseCfg config.Config
	cfg     config.Config
	version string

	reg      *dict.Registry
	sessions *engine.Sessions

	workspaceRoot     string
	shutdownRequested bool
	baseCtx           context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	return &Server{
		in:      bufio.NewReader(in),
		out:     bufio.NewWriter(out),
		baseCfg: opts.Config,
		cfg:     opts.Config,
		version: opts.Version,
	}
}

// Run serves LSP requests until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer func() {
		if s.sessions != nil {
			s.sessions.Wait()
		}
	}()
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	case "workspace/executeCommand":
		return s.handleExecuteCommand(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}

	clientCfg, err := config.ParseJSON(params.InitializationOptions)
	if err != nil {
		s.logf("%v", err)
	}
	cfg := config.Merge(s.baseCfg, clientCfg)

	sev, err := cfg.Severity()
	if err != nil {
		s.logf("%v, using warning", err)
		sev = diag.SevWarning
	}

	reg := s.buildRegistry(cfg)
	s.mu.Lock()
	s.workspaceRoot = root
	s.cfg = cfg
	s.reg = reg
	s.sessions = engine.NewSessions(reg, sev, s.publishDiagnostics)
	s.mu.Unlock()

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			CodeActionProvider: &codeActionOptions{
				CodeActionKinds: []string{"quickfix"},
			},
			ExecuteCommandProvider: &executeCommandOptions{
				Commands: []string{cmdAddToDictionary, cmdAddAllToDictionary, cmdIgnore},
			},
		},
		ServerInfo: &serverInfo{
			Name:    "wordlint",
			Version: s.version,
		},
	}
	return s.sendResponse(msg.ID, result)
}

// buildRegistry assembles the dictionary registry for the resolved
// configuration. Dictionary load failures are logged and skipped so one bad
// path does not take the server down.
func (s *Server) buildRegistry(cfg config.Config) *dict.Registry {
	var appender dict.Appender
	dictPath, err := cfg.ResolvedDictPath()
	if err != nil {
		s.logf("personal dictionary unavailable: %v", err)
	} else {
		appender = &dict.FileAppender{Path: dictPath}
	}
	reg := dict.NewRegistry(appender)

	if dictPath != "" {
		if err := dict.LoadPersonal(reg, dictPath); err != nil {
			s.logf("failed to load personal dictionary: %v", err)
		}
	}

	sources, err := cfg.Sources()
	if err != nil {
		s.logf("failed to resolve dictionary paths: %v", err)
	}
	if len(sources) > 0 {
		cache, err := dict.OpenDiskCache("wordlint")
		if err != nil {
			s.logf("word list cache disabled: %v", err)
		}
		ctx := s.baseCtx
		if ctx == nil {
			ctx = context.Background()
		}
		for _, loadErr := range dict.LoadSources(ctx, reg, sources, cache) {
			s.logf("dictionary skipped: %v", loadErr)
		}
	}
	s.logf("registry ready: %d words", reg.Size())
	return reg
}

// handleDidChangeConfiguration rebuilds the registry under the new settings
// and rescans every open document. Settings may arrive either wrapped in a
// "wordlint" section or as the bare config object. Each notification carries
// the client's full settings, so they overlay the project config, not the
// previously resolved one; a field the client stops sending falls back to
// the project value.
func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	raw := params.Settings
	var wrapped lspSettings
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Wordlint) > 0 {
		raw = wrapped.Wordlint
	}
	clientCfg, err := config.ParseJSON(raw)
	if err != nil {
		s.logf("%v", err)
		return nil
	}

	s.mu.Lock()
	cfg := config.Merge(s.baseCfg, clientCfg)
	s.cfg = cfg
	sessions := s.sessions
	s.mu.Unlock()
	if sessions == nil {
		return nil
	}

	sev, err := cfg.Severity()
	if err != nil {
		s.logf("%v, using warning", err)
		sev = diag.SevWarning
	}
	reg := s.buildRegistry(cfg)
	s.mu.Lock()
	s.reg = reg
	s.mu.Unlock()
	sessions.Reconfigure(reg, sev)
	return nil
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	sessions := s.sessions
	s.mu.Unlock()
	if sessions != nil {
		sessions.Wait()
	}
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) currentSessions() *engine.Sessions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	sessions := s.currentSessions()
	if uri == "" || sessions == nil {
		return nil
	}
	sessions.DidOpen(uri, params.TextDocument.LanguageID, params.TextDocument.Text, params.TextDocument.Version)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	sessions := s.currentSessions()
	if uri == "" || sessions == nil {
		return nil
	}
	text, _, ok := sessions.Text(uri)
	if !ok {
		return nil
	}
	text = applyChanges(text, params.ContentChanges)
	sessions.DidChange(uri, text, params.TextDocument.Version)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	sessions := s.currentSessions()
	if uri == "" || sessions == nil {
		return nil
	}
	if params.Text != nil {
		_, version, ok := sessions.Text(uri)
		if !ok {
			return nil
		}
		sessions.DidChange(uri, *params.Text, version)
		return nil
	}
	sessions.Refresh(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	sessions := s.currentSessions()
	if uri == "" || sessions == nil {
		return nil
	}
	sessions.DidClose(uri)
	// Clear stale squiggles in the editor.
	return s.sendPublish(uri, 0, nil)
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	actions := []codeAction{}
	for _, d := range params.Context.Diagnostics {
		if d.Source != diagnosticSource || len(d.Data) == 0 {
			continue
		}
		var data diagnosticData
		if err := json.Unmarshal(d.Data, &data); err != nil || data.Word == "" {
			continue
		}
		actions = append(actions,
			codeAction{
				Title:       fmt.Sprintf("Add %q to dictionary", data.Word),
				Kind:        "quickfix",
				Diagnostics: []lspDiagnostic{d},
				Command: &command{
					Title:     "Add to dictionary",
					Command:   cmdAddToDictionary,
					Arguments: []any{data.Word},
				},
			},
			codeAction{
				Title:       fmt.Sprintf("Ignore %q for this session", data.Word),
				Kind:        "quickfix",
				Diagnostics: []lspDiagnostic{d},
				Command: &command{
					Title:     "Ignore word",
					Command:   cmdIgnore,
					Arguments: []any{data.Word},
				},
			},
		)
	}
	uri := canonicalURI(params.TextDocument.URI)
	if sessions := s.currentSessions(); len(actions) > 0 && sessions != nil && len(sessions.Published(uri)) > 0 {
		actions = append(actions, codeAction{
			Title: "Add all misspelled words in current file to dictionary",
			Kind:  "quickfix",
			Command: &command{
				Title:     "Add all to dictionary",
				Command:   cmdAddAllToDictionary,
				Arguments: []any{uri},
			},
		})
	}
	return s.sendResponse(msg.ID, actions)
}

func (s *Server) handleExecuteCommand(msg *rpcMessage) error {
	var params executeCommandParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	arg := ""
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments[0], &arg); err != nil || arg == "" {
			return s.sendError(msg.ID, -32602, "expected a string argument")
		}
	}
	sessions := s.currentSessions()
	if sessions == nil {
		return s.sendError(msg.ID, -32603, "server not initialized")
	}
	switch params.Command {
	case cmdAddToDictionary:
		if err := sessions.AddWord(arg); err != nil {
			// The word still suppresses diagnostics for this session;
			// surface that it will not survive a restart.
			return s.sendError(msg.ID, -32603, fmt.Sprintf("failed to persist %q: %v", arg, err))
		}
		return s.sendResponse(msg.ID, nil)
	case cmdAddAllToDictionary:
		if err := sessions.AddAllWords(canonicalURI(arg)); err != nil {
			return s.sendError(msg.ID, -32603, fmt.Sprintf("failed to persist dictionary: %v", err))
		}
		return s.sendResponse(msg.ID, nil)
	case cmdIgnore:
		sessions.IgnoreWord(arg)
		return s.sendResponse(msg.ID, nil)
	default:
		return s.sendError(msg.ID, -32601, "unknown command")
	}
}

// publishDiagnostics is the engine publisher. It runs on scan goroutines,
// serialized per the session manager's publish lock.
func (s *Server) publishDiagnostics(uri string, version int, text string, diags []diag.Diagnostic) {
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		data, _ := json.Marshal(diagnosticData{Word: d.Word})
		list = append(list, lspDiagnostic{
			Range: lspRange{
				Start: positionForOffset(text, int(d.Span.Start)),
				End:   positionForOffset(text, int(d.Span.End)),
			},
			Severity: d.Severity.LSP(),
			Code:     "unknown-word",
			Source:   diagnosticSource,
			Message:  d.Message,
			Data:     data,
		})
	}
	if err := s.sendPublish(uri, version, list); err != nil {
		s.logf("failed to publish diagnostics: %v", err)
	}
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      json.RawMessage(id),
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}
