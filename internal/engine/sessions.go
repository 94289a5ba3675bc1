package engine

import (
	"sync"
	"sync/atomic"

	"wordlint/internal/diag"
	"wordlint/internal/dict"
)

// Publisher delivers final diagnostics for a document version. Calls are
// serialized by the session manager, so published versions for one URI are
// monotonic. The publisher must not call back into Sessions.
type Publisher func(uri string, version int, text string, diags []diag.Diagnostic)

// document is the per-URI state. Owned exclusively by Sessions; gen is the
// generation token that invalidates in-flight scans when the text changes.
type document struct {
	languageID string
	version    int
	text       string
	gen        uint64
	published  []diag.Diagnostic
}

// Sessions is the document session manager. Every open/change event spawns
// one scan goroutine; scans run to completion and their results are dropped
// at publish time when the captured generation token no longer matches.
type Sessions struct {
	mu       sync.Mutex
	docs     map[string]*document
	reg      *dict.Registry
	severity diag.Severity
	publish  Publisher

	genSeq uint64
	wg     sync.WaitGroup
}

// NewSessions creates a session manager over the shared registry.
func NewSessions(reg *dict.Registry, sev diag.Severity, publish Publisher) *Sessions {
	return &Sessions{
		docs:     make(map[string]*document),
		reg:      reg,
		severity: sev,
		publish:  publish,
	}
}

func (s *Sessions) nextGen() uint64 {
	return atomic.AddUint64(&s.genSeq, 1)
}

type snapshot struct {
	uri        string
	languageID string
	text       string
	version    int
	gen        uint64
}

// DidOpen creates the document state and triggers the first scan.
func (s *Sessions) DidOpen(uri, languageID, text string, version int) {
	s.mu.Lock()
	d := &document{
		languageID: languageID,
		version:    version,
		text:       text,
		gen:        s.nextGen(),
	}
	s.docs[uri] = d
	snap := snapshot{uri: uri, languageID: d.languageID, text: text, version: version, gen: d.gen}
	s.mu.Unlock()
	s.spawn(snap)
}

// DidChange replaces the document text, invalidates any in-flight scan by
// advancing the generation token, and triggers a new scan. Events for
// unknown URIs are ignored.
func (s *Sessions) DidChange(uri, text string, version int) {
	s.mu.Lock()
	d, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return
	}
	d.text = text
	d.version = version
	d.gen = s.nextGen()
	snap := snapshot{uri: uri, languageID: d.languageID, text: text, version: version, gen: d.gen}
	s.mu.Unlock()
	s.spawn(snap)
}

// Refresh rescans the current text without a version change (didSave).
func (s *Sessions) Refresh(uri string) {
	s.mu.Lock()
	d, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return
	}
	d.gen = s.nextGen()
	snap := snapshot{uri: uri, languageID: d.languageID, text: d.text, version: d.version, gen: d.gen}
	s.mu.Unlock()
	s.spawn(snap)
}

// DidClose discards the document state. In-flight scans complete but their
// results fail the generation check and are dropped.
func (s *Sessions) DidClose(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// AddWord adds the word to the personal dictionary and rescans every open
// document, since the word may resolve previously flagged diagnostics
// elsewhere. Returns the persistence error, if any; the in-memory add is
// effective either way.
func (s *Sessions) AddWord(word string) error {
	s.mu.Lock()
	reg := s.reg
	s.mu.Unlock()
	err := reg.Add(word)
	s.rescanAll()
	return err
}

// AddAllWords adds every word currently flagged in the document to the
// personal dictionary and rescans every open document. The set comes from
// the last published diagnostics, so it matches what the editor is showing.
// Returns the first persistence error; the in-memory adds are effective
// either way.
func (s *Sessions) AddAllWords(uri string) error {
	s.mu.Lock()
	reg := s.reg
	s.mu.Unlock()
	var firstErr error
	seen := make(map[string]struct{})
	for _, d := range s.Published(uri) {
		if _, dup := seen[d.Word]; dup {
			continue
		}
		seen[d.Word] = struct{}{}
		if err := reg.Add(d.Word); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.rescanAll()
	return firstErr
}

// IgnoreWord suppresses the word for the rest of the session and rescans
// every open document.
func (s *Sessions) IgnoreWord(word string) {
	s.mu.Lock()
	reg := s.reg
	s.mu.Unlock()
	reg.AddSession(word)
	s.rescanAll()
}

// Reconfigure swaps the registry and severity, then rescans every open
// document under the new configuration.
func (s *Sessions) Reconfigure(reg *dict.Registry, sev diag.Severity) {
	s.mu.Lock()
	s.reg = reg
	s.severity = sev
	s.mu.Unlock()
	s.rescanAll()
}

func (s *Sessions) rescanAll() {
	s.mu.Lock()
	snaps := make([]snapshot, 0, len(s.docs))
	for uri, d := range s.docs {
		d.gen = s.nextGen()
		snaps = append(snaps, snapshot{uri: uri, languageID: d.languageID, text: d.text, version: d.version, gen: d.gen})
	}
	s.mu.Unlock()
	for _, snap := range snaps {
		s.spawn(snap)
	}
}

// Text returns the current text and version for an open document.
func (s *Sessions) Text(uri string) (text string, version int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, found := s.docs[uri]
	if !found {
		return "", 0, false
	}
	return d.text, d.version, true
}

// Published returns the last published diagnostics for a document.
func (s *Sessions) Published(uri string) []diag.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[uri]; ok {
		return d.published
	}
	return nil
}

// Wait blocks until every in-flight scan has completed. Used on shutdown
// and in tests.
func (s *Sessions) Wait() {
	s.wg.Wait()
}

func (s *Sessions) spawn(snap snapshot) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runScan(snap)
	}()
}

// runScan executes the pipeline for a captured snapshot and publishes the
// result only if the document still carries the same generation token.
// Superseded results are discarded silently; this is the whole staleness
// story, no cancellation is threaded through the pipeline.
func (s *Sessions) runScan(snap snapshot) {
	s.mu.Lock()
	reg, sev := s.reg, s.severity
	s.mu.Unlock()
	diags := CheckText(snap.uri, snap.languageID, snap.text, reg, sev)

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[snap.uri]
	if !ok || d.gen != snap.gen {
		return
	}
	d.published = diags
	if s.publish != nil {
		s.publish(snap.uri, snap.version, snap.text, diags)
	}
}
