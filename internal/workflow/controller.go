// ABOUTME: Workflow controller sequencing upload, analysis, and Q&A for one
// ABOUTME: document at a time, with single-flight enforcement per instance

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/sony/gobreaker/v2"

	"github.com/lexibridge/lexibridge-cli/internal/client"
	"github.com/lexibridge/lexibridge-cli/internal/summary"
)

// State is the workflow position for the current document session
type State int

const (
	StateIdle State = iota
	StateSelected
	StateUploading
	StateUploaded
	StateAnalyzing
	StateAnalyzed
	StateAsking
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateUploading:
		return "uploading"
	case StateUploaded:
		return "uploaded"
	case StateAnalyzing:
		return "analyzing"
	case StateAnalyzed:
		return "analyzed"
	case StateAsking:
		return "asking"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when an operation starts while another is in flight.
// Operations are single-flight per controller; callers disable the affordance
// rather than queue.
var ErrBusy = errors.New("another operation is in progress")

// MaxFileSize is the upload size limit
const MaxFileSize = 25 << 20 // 25 MiB

// AnalysisPrompt is the question sent for the initial document analysis
const AnalysisPrompt = "Analyze this legal document and provide a comprehensive summary including: key points, potential risks, important clauses, and recommendations. Format the response with clear sections."

// DocumentAPI is the slice of the backend client the controller drives
type DocumentAPI interface {
	UploadDocument(ctx context.Context, path string) (*client.UploadResponse, error)
	AnalyzeDocument(ctx context.Context, documentID string) (*client.AnalyzeResponse, error)
	AskAI(ctx context.Context, documentID, question string) (*client.AskResponse, error)
}

// Config tunes validation and failure policy
type Config struct {
	// AcceptedExtensions lists allowed upload types, lower-case with dot.
	// Empty means the default set.
	AcceptedExtensions []string
	// StrictAnalyze makes an unrecoverable analysis failure an error instead
	// of substituting the locally generated fallback summary.
	StrictAnalyze bool
}

func defaultExtensions() []string {
	return []string{".pdf", ".doc", ".docx"}
}

// SelectedFile describes the validated file chosen for upload
type SelectedFile struct {
	Path      string
	Name      string
	SizeBytes int64
	// Pages is the PDF page count when the file could be inspected locally,
	// zero otherwise.
	Pages int
}

// DocumentRef is the uploaded document's identity, read-only once captured
type DocumentRef struct {
	ID            string
	Filename      string
	UploadedAt    time.Time
	FileSizeBytes int64
}

// Exchange is one completed question/answer round trip
type Exchange struct {
	ID           string
	Question     string
	ResponseText string
	Timestamp    time.Time
}

// Controller drives the upload, analyze, ask sequence and owns all transient
// state for the current document session.
type Controller struct {
	api DocumentAPI
	cfg Config

	// breaker trips after repeated analysis failures so a struggling AI
	// backend is not hammered; carries the response text.
	breaker *gobreaker.CircuitBreaker[string]

	mu           sync.Mutex
	state        State
	busy         bool
	selected     *SelectedFile
	doc          *DocumentRef
	rawResponse  string
	summary      *summary.Summary
	fallbackUsed bool
	exchanges    []Exchange
	lastErr      error
}

// NewController creates a controller in the idle state
func NewController(api DocumentAPI, cfg Config) *Controller {
	if len(cfg.AcceptedExtensions) == 0 {
		cfg.AcceptedExtensions = defaultExtensions()
	}
	settings := gobreaker.Settings{
		Name:    "analysis",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// Only backend-side failures count toward tripping.
			var authErr *client.AuthError
			return err == nil || errors.As(err, &authErr)
		},
	}
	return &Controller{
		api:     api,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		state:   StateIdle,
	}
}

// State returns the current workflow state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether an operation is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Selected returns the currently selected file, nil when none
func (c *Controller) Selected() *SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Document returns the uploaded document reference, nil before upload
func (c *Controller) Document() *DocumentRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// RawResponse returns the latest full AI response text
func (c *Controller) RawResponse() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rawResponse
}

// Summary returns the extracted summary, nil before analysis completes
func (c *Controller) Summary() *summary.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// FallbackUsed reports whether the current summary is the locally generated
// stand-in rather than backend output.
func (c *Controller) FallbackUsed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallbackUsed
}

// Exchanges returns the ordered Q&A log, most recent last
func (c *Controller) Exchanges() []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Exchange, len(c.exchanges))
	copy(out, c.exchanges)
	return out
}

// Err returns the error that moved the controller into the error state
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Reset discards all session state and returns to idle. Safe in any state;
// in-flight results arriving after a reset are dropped by the busy check.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.selected = nil
	c.doc = nil
	c.rawResponse = ""
	c.summary = nil
	c.fallbackUsed = false
	c.exchanges = nil
	c.lastErr = nil
}

// Resume enters the uploaded state with a document from an earlier session,
// so analysis can run without repeating the upload.
func (c *Controller) Resume(ref DocumentRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	if ref.ID == "" {
		return &client.ValidationError{Message: "document identifier must not be empty"}
	}
	c.selected = nil
	c.doc = &ref
	c.rawResponse = ""
	c.summary = nil
	c.fallbackUsed = false
	c.exchanges = nil
	c.lastErr = nil
	c.state = StateUploaded
	return nil
}

// ResumeAnalyzed enters the analyzed state directly, for documents the
// backend has already analyzed. Questions can be asked immediately; the
// summary stays empty until Analyze runs.
func (c *Controller) ResumeAnalyzed(ref DocumentRef) error {
	if err := c.Resume(ref); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateAnalyzed
	return nil
}

// Select validates and records a file for upload. A failed validation leaves
// the controller exactly where it was. Selecting while a previous document
// session exists discards that session, matching the start-a-new-upload flow.
func (c *Controller) Select(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &client.ValidationError{Message: fmt.Sprintf("cannot read file: %v", err)}
	}
	if info.IsDir() {
		return &client.ValidationError{Message: fmt.Sprintf("%s is a directory", path)}
	}
	if info.Size() > MaxFileSize {
		return &client.ValidationError{Message: fmt.Sprintf("file is %d bytes, limit is 25 MiB", info.Size())}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !c.extensionAccepted(ext) {
		return &client.ValidationError{
			Message: fmt.Sprintf("unsupported file type %q, accepted: %s", ext, strings.Join(c.cfg.AcceptedExtensions, ", ")),
		}
	}

	sel := &SelectedFile{
		Path:      path,
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
	}
	if ext == ".pdf" {
		sel.Pages = pdfPageCount(path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.selected = sel
	c.doc = nil
	c.rawResponse = ""
	c.summary = nil
	c.fallbackUsed = false
	c.exchanges = nil
	c.lastErr = nil
	c.state = StateSelected
	slog.Debug("file selected", "name", sel.Name, "size", sel.SizeBytes, "pages", sel.Pages)
	return nil
}

func (c *Controller) extensionAccepted(ext string) bool {
	for _, accepted := range c.cfg.AcceptedExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}

// pdfPageCount inspects the file locally. Informational only; a file the
// parser rejects may still upload fine, so failures report zero pages.
func pdfPageCount(path string) int {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	return reader.NumPage()
}

// Upload transmits the selected file and captures the document identifier
func (c *Controller) Upload(ctx context.Context) (*DocumentRef, error) {
	sel, err := c.begin(StateUploading, StateSelected)
	if err != nil {
		return nil, err
	}

	resp, uploadErr := c.api.UploadDocument(ctx, sel.Path)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if uploadErr != nil {
		return nil, c.failLocked(uploadErr, StateSelected)
	}
	id, err := resp.DocumentID()
	if err != nil {
		return nil, c.failLocked(err, StateSelected)
	}

	c.doc = &DocumentRef{
		ID:            id,
		Filename:      sel.Name,
		UploadedAt:    time.Now(),
		FileSizeBytes: sel.SizeBytes,
	}
	c.state = StateUploaded
	slog.Info("document uploaded", "documentId", id, "name", sel.Name)
	ref := *c.doc
	return &ref, nil
}

// Analyze requests the initial AI analysis and extracts the summary. This is
// the one ask-shaped call that feeds the summary instead of the Q&A log.
// When the backend cannot produce an analysis and strict mode is off, a
// locally generated fallback summary is substituted so the session can
// continue; FallbackUsed reports the substitution.
func (c *Controller) Analyze(ctx context.Context) (*summary.Summary, error) {
	_, err := c.begin(StateAnalyzing, StateUploaded, StateAnalyzed)
	if err != nil {
		return nil, err
	}

	text, analyzeErr := c.breaker.Execute(func() (string, error) {
		c.mu.Lock()
		docID := c.doc.ID
		c.mu.Unlock()
		resp, err := c.api.AnalyzeDocument(ctx, docID)
		if err != nil {
			return "", err
		}
		return resp.AISummary, nil
	})
	analyzeErr = mapBreakerErr(analyzeErr)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if analyzeErr != nil {
		if retryable(analyzeErr) {
			// The view offers a retry; stay re-enterable.
			c.state = StateUploaded
			return nil, analyzeErr
		}
		if !c.cfg.StrictAnalyze && isAnalysisFailure(analyzeErr) {
			slog.Warn("analysis unavailable, substituting fallback summary", "error", analyzeErr)
			s := summary.FallbackSummary(c.doc.Filename)
			c.rawResponse = ""
			c.summary = &s
			c.fallbackUsed = true
			c.state = StateAnalyzed
			return c.summary, nil
		}
		return nil, c.failLocked(analyzeErr, StateUploaded)
	}

	s := summary.Extract(text)
	c.rawResponse = text
	c.summary = &s
	c.fallbackUsed = false
	c.state = StateAnalyzed
	return c.summary, nil
}

// Ask sends a follow-up question about the analyzed document and appends the
// completed exchange to the log. The summary is left untouched.
func (c *Controller) Ask(ctx context.Context, question string) (*Exchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &client.ValidationError{Message: "question must not be empty"}
	}

	_, err := c.begin(StateAsking, StateAnalyzed)
	if err != nil {
		return nil, err
	}

	text, askErr := c.breaker.Execute(func() (string, error) {
		c.mu.Lock()
		docID := c.doc.ID
		c.mu.Unlock()
		resp, err := c.api.AskAI(ctx, docID, question)
		if err != nil {
			return "", err
		}
		return resp.AIResponse, nil
	})
	askErr = mapBreakerErr(askErr)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if askErr != nil {
		if retryable(askErr) {
			c.state = StateAnalyzed
			return nil, askErr
		}
		return nil, c.failLocked(askErr, StateAnalyzed)
	}

	exchange := Exchange{
		ID:           uuid.NewString(),
		Question:     question,
		ResponseText: text,
		Timestamp:    time.Now(),
	}
	c.exchanges = append(c.exchanges, exchange)
	c.state = StateAnalyzed
	return &exchange, nil
}

// begin moves into an in-flight state after checking the busy flag and that
// the controller is in one of the allowed states. Returns the selected file
// for operations that need it.
func (c *Controller) begin(next State, allowed ...State) (*SelectedFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return nil, ErrBusy
	}
	ok := false
	for _, s := range allowed {
		if c.state == s {
			ok = true
			break
		}
	}
	if !ok {
		return nil, &client.ValidationError{
			Message: fmt.Sprintf("cannot start %s from state %s", next, c.state),
		}
	}
	c.busy = true
	c.state = next
	return c.selected, nil
}

// failLocked records the error and decides the landing state: auth and
// network failures park the controller in the error state; everything else
// returns to the given re-enterable state. Callers must hold the mutex.
func (c *Controller) failLocked(err error, reenter State) error {
	c.lastErr = err

	var authErr *client.AuthError
	var netErr *client.NetworkError
	if errors.As(err, &authErr) || errors.As(err, &netErr) {
		c.state = StateError
	} else {
		c.state = reenter
	}
	return err
}

// retryable reports errors the view should surface with a retry affordance
// instead of treating as hard failures.
func retryable(err error) bool {
	var toErr *client.TimeoutError
	return errors.As(err, &toErr)
}

// isAnalysisFailure reports whether the fallback-summary policy applies
func isAnalysisFailure(err error) bool {
	var anErr *client.AnalysisError
	return errors.As(err, &anErr)
}

// mapBreakerErr translates circuit-breaker refusals into the analysis error
// vocabulary the rest of the app speaks.
func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &client.AnalysisError{Message: "analysis is temporarily unavailable after repeated failures, try again shortly"}
	}
	return err
}

// SuggestedQuestions returns starter questions for the Q&A view
func SuggestedQuestions() []string {
	return []string{
		"What are the key obligations for each party?",
		"Identify any termination clauses and their conditions",
		"Are there any liability limitations or indemnities?",
		"What are the payment terms and conditions?",
		"Are there any confidentiality requirements?",
		"What dispute resolution mechanisms are included?",
	}
}
