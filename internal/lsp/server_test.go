package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"wordlint/internal/config"
)

// drainMessages decodes every framed message written to out so far.
func drainMessages(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if err != nil {
			return msgs
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func lastPublish(t *testing.T, out *bytes.Buffer, uri string) (publishDiagnosticsParams, bool) {
	t.Helper()
	var last publishDiagnosticsParams
	found := false
	for _, msg := range drainMessages(t, out) {
		if msg.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var params publishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			t.Fatalf("decode publish params: %v", err)
		}
		if params.URI == uri {
			last = params
			found = true
		}
	}
	return last, found
}

func initializeServer(t *testing.T, out *bytes.Buffer, initOpts string) *Server {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	server := NewServer(bytes.NewReader(nil), out, ServerOptions{Config: config.Config{}})
	server.baseCtx = context.Background()

	params := []byte(`{"rootUri":"","initializationOptions":` + initOpts + `}`)
	msg := &rpcMessage{ID: json.RawMessage("1"), Method: "initialize", Params: params}
	if err := server.handleInitialize(msg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return server
}

func openDoc(t *testing.T, server *Server, uri, languageID, text string, version int) {
	t.Helper()
	params, _ := json.Marshal(didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: languageID, Version: version, Text: text},
	})
	if err := server.handleDidOpen(&rpcMessage{Method: "textDocument/didOpen", Params: params}); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	server.sessions.Wait()
}

func TestInitializeCapabilities(t *testing.T) {
	var out bytes.Buffer
	initializeServer(t, &out, `{"diagnostic_severity":"hint"}`)

	msgs := drainMessages(t, &out)
	if len(msgs) == 0 {
		t.Fatal("no initialize response")
	}
	var result initializeResult
	if err := json.Unmarshal(msgs[0].Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Capabilities.TextDocumentSync.OpenClose {
		t.Fatal("openClose not advertised")
	}
	if result.Capabilities.ExecuteCommandProvider == nil {
		t.Fatal("executeCommandProvider not advertised")
	}
	cmds := result.Capabilities.ExecuteCommandProvider.Commands
	if len(cmds) != 3 || cmds[0] != cmdAddToDictionary || cmds[1] != cmdAddAllToDictionary || cmds[2] != cmdIgnore {
		t.Fatalf("commands = %v", cmds)
	}
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{"diagnostic_severity":"hint"}`)

	uri := canonicalURI("file:///tmp/readme.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)

	params, ok := lastPublish(t, &out, uri)
	if !ok {
		t.Fatal("no publish for opened document")
	}
	if params.Version != 1 {
		t.Fatalf("version = %d, want 1", params.Version)
	}
	if len(params.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", params.Diagnostics)
	}
	got := params.Diagnostics[0]
	if got.Range.Start.Line != 0 || got.Range.Start.Character != 0 {
		t.Fatalf("start = %+v", got.Range.Start)
	}
	if got.Range.End.Character != 7 {
		t.Fatalf("end = %+v", got.Range.End)
	}
	if got.Severity != 4 {
		t.Fatalf("severity = %d, want 4 (hint)", got.Severity)
	}
	if got.Source != diagnosticSource || got.Code != "unknown-word" {
		t.Fatalf("source/code = %q/%q", got.Source, got.Code)
	}
	var data diagnosticData
	if err := json.Unmarshal(got.Data, &data); err != nil || data.Word != "zymurgy" {
		t.Fatalf("data = %s (%v)", got.Data, err)
	}
}

func TestDidChangeRepublishes(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)

	change, _ := json.Marshal(didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{
			{Text: "the\n"},
		},
	})
	if err := server.handleDidChange(&rpcMessage{Method: "textDocument/didChange", Params: change}); err != nil {
		t.Fatalf("didChange: %v", err)
	}
	server.sessions.Wait()

	params, ok := lastPublish(t, &out, uri)
	if !ok {
		t.Fatal("no publish after change")
	}
	if params.Version != 2 {
		t.Fatalf("version = %d, want 2", params.Version)
	}
	// "the" is only three letters, below the flagging threshold.
	if len(params.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v", params.Diagnostics)
	}
}

func TestCodeActionOffersBothFixes(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)
	published, _ := lastPublish(t, &out, uri)
	if len(published.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
	out.Reset()

	params, _ := json.Marshal(codeActionParams{
		TextDocument: textDocumentIdentifier{URI: uri},
		Range:        published.Diagnostics[0].Range,
		Context:      codeActionContext{Diagnostics: published.Diagnostics},
	})
	msg := &rpcMessage{ID: json.RawMessage("7"), Method: "textDocument/codeAction", Params: params}
	if err := server.handleCodeAction(msg); err != nil {
		t.Fatalf("codeAction: %v", err)
	}

	msgs := drainMessages(t, &out)
	if len(msgs) != 1 {
		t.Fatalf("messages = %d", len(msgs))
	}
	var actions []codeAction
	if err := json.Unmarshal(msgs[0].Result, &actions); err != nil {
		t.Fatalf("decode actions: %v", err)
	}
	if len(actions) != 3 {
		t.Fatalf("actions = %+v", actions)
	}
	if actions[0].Command == nil || actions[0].Command.Command != cmdAddToDictionary {
		t.Fatalf("first action = %+v", actions[0])
	}
	if actions[1].Command == nil || actions[1].Command.Command != cmdIgnore {
		t.Fatalf("second action = %+v", actions[1])
	}
	if actions[2].Command == nil || actions[2].Command.Command != cmdAddAllToDictionary {
		t.Fatalf("third action = %+v", actions[2])
	}
	if len(actions[2].Command.Arguments) != 1 || actions[2].Command.Arguments[0] != uri {
		t.Fatalf("add-all arguments = %v", actions[2].Command.Arguments)
	}
}

func TestExecuteIgnoreClearsDiagnostics(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)
	out.Reset()

	params, _ := json.Marshal(executeCommandParams{
		Command:   cmdIgnore,
		Arguments: []json.RawMessage{json.RawMessage(`"zymurgy"`)},
	})
	msg := &rpcMessage{ID: json.RawMessage("9"), Method: "workspace/executeCommand", Params: params}
	if err := server.handleExecuteCommand(msg); err != nil {
		t.Fatalf("executeCommand: %v", err)
	}
	server.sessions.Wait()

	published, ok := lastPublish(t, &out, uri)
	if !ok {
		t.Fatal("no republish after ignore")
	}
	if len(published.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
}

func TestExecuteAddToDictionaryPersists(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)

	params, _ := json.Marshal(executeCommandParams{
		Command:   cmdAddToDictionary,
		Arguments: []json.RawMessage{json.RawMessage(`"zymurgy"`)},
	})
	msg := &rpcMessage{ID: json.RawMessage("3"), Method: "workspace/executeCommand", Params: params}
	if err := server.handleExecuteCommand(msg); err != nil {
		t.Fatalf("executeCommand: %v", err)
	}
	server.sessions.Wait()

	if got := server.reg.PersonalWords(); len(got) != 1 || got[0] != "zymurgy" {
		t.Fatalf("personal words = %v", got)
	}
	published, _ := lastPublish(t, &out, uri)
	if len(published.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
}

func TestExecuteAddAllToDictionary(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy xylotomy\n", 1)
	published, _ := lastPublish(t, &out, uri)
	if len(published.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}

	params, _ := json.Marshal(executeCommandParams{
		Command:   cmdAddAllToDictionary,
		Arguments: []json.RawMessage{json.RawMessage(`"` + uri + `"`)},
	})
	msg := &rpcMessage{ID: json.RawMessage("5"), Method: "workspace/executeCommand", Params: params}
	if err := server.handleExecuteCommand(msg); err != nil {
		t.Fatalf("executeCommand: %v", err)
	}
	server.sessions.Wait()

	if got := server.reg.PersonalWords(); len(got) != 2 {
		t.Fatalf("personal words = %v, want two", got)
	}
	published, _ = lastPublish(t, &out, uri)
	if len(published.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
}

func TestDidChangeConfigurationRescans(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{"diagnostic_severity":"warning"}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)
	published, _ := lastPublish(t, &out, uri)
	if len(published.Diagnostics) != 1 || published.Diagnostics[0].Severity != 2 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
	out.Reset()

	params := []byte(`{"settings":{"wordlint":{"diagnostic_severity":"error"}}}`)
	msg := &rpcMessage{Method: "workspace/didChangeConfiguration", Params: params}
	if err := server.handleDidChangeConfiguration(msg); err != nil {
		t.Fatalf("didChangeConfiguration: %v", err)
	}
	server.sessions.Wait()

	published, ok := lastPublish(t, &out, uri)
	if !ok {
		t.Fatal("no republish after configuration change")
	}
	if len(published.Diagnostics) != 1 || published.Diagnostics[0].Severity != 1 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
}

// Each didChangeConfiguration overlays the project config from scratch, so
// dropping a field from the settings resets it to the project value.
func TestDidChangeConfigurationResetsDroppedFields(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{"diagnostic_severity":"hint"}`)

	uri := canonicalURI("file:///tmp/a.txt")
	openDoc(t, server, uri, "plaintext", "zymurgy\n", 1)
	published, _ := lastPublish(t, &out, uri)
	if len(published.Diagnostics) != 1 || published.Diagnostics[0].Severity != 4 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
	out.Reset()

	params := []byte(`{"settings":{"wordlint":{}}}`)
	msg := &rpcMessage{Method: "workspace/didChangeConfiguration", Params: params}
	if err := server.handleDidChangeConfiguration(msg); err != nil {
		t.Fatalf("didChangeConfiguration: %v", err)
	}
	server.sessions.Wait()

	published, ok := lastPublish(t, &out, uri)
	if !ok {
		t.Fatal("no republish after configuration change")
	}
	// Severity was never set in the project config, so it falls back to the
	// default warning instead of sticking at the old client value.
	if len(published.Diagnostics) != 1 || published.Diagnostics[0].Severity != 2 {
		t.Fatalf("diagnostics = %+v", published.Diagnostics)
	}
}

func TestUnknownCommandRejected(t *testing.T) {
	var out bytes.Buffer
	server := initializeServer(t, &out, `{}`)
	out.Reset()

	params, _ := json.Marshal(executeCommandParams{
		Command:   "wordlint.teleport",
		Arguments: []json.RawMessage{json.RawMessage(`"x"`)},
	})
	msg := &rpcMessage{ID: json.RawMessage("4"), Method: "workspace/executeCommand", Params: params}
	if err := server.handleExecuteCommand(msg); err != nil {
		t.Fatalf("executeCommand: %v", err)
	}
	msgs := drainMessages(t, &out)
	if len(msgs) != 1 || msgs[0].Error == nil {
		t.Fatalf("expected error response, got %+v", msgs)
	}
}
