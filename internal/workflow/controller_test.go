// ABOUTME: Tests for the workflow controller state machine, validation, the
// ABOUTME: fallback-summary policy, and single-flight enforcement

package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibridge/lexibridge-cli/internal/client"
)

type fakeAPI struct {
	mu sync.Mutex

	uploadResp *client.UploadResponse
	uploadErr  error

	analyzeResp *client.AnalyzeResponse
	analyzeErr  error

	askResp *client.AskResponse
	askErr  error

	askCalls      int
	lastQuestion  string
	askStarted    chan struct{} // when set, closed once AskAI is entered
	blockAsk      chan struct{} // when set, AskAI waits until closed
	uploadedPaths []string
}

func (f *fakeAPI) UploadDocument(ctx context.Context, path string) (*client.UploadResponse, error) {
	f.mu.Lock()
	f.uploadedPaths = append(f.uploadedPaths, path)
	f.mu.Unlock()
	return f.uploadResp, f.uploadErr
}

func (f *fakeAPI) AnalyzeDocument(ctx context.Context, documentID string) (*client.AnalyzeResponse, error) {
	return f.analyzeResp, f.analyzeErr
}

func (f *fakeAPI) AskAI(ctx context.Context, documentID, question string) (*client.AskResponse, error) {
	f.mu.Lock()
	f.askCalls++
	f.lastQuestion = question
	started := f.askStarted
	f.askStarted = nil
	block := f.blockAsk
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return f.askResp, f.askErr
}

func happyAPI() *fakeAPI {
	return &fakeAPI{
		uploadResp:  &client.UploadResponse{Success: true, CamelID: "doc-1"},
		analyzeResp: &client.AnalyzeResponse{Success: true, AISummary: "• Risk: unlimited liability\n→ Negotiate a cap."},
		askResp:     &client.AskResponse{Success: true, AIResponse: "The term is 24 months."},
	}
}

func writePDF(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func selectAndUpload(t *testing.T, c *Controller, api *fakeAPI) {
	t.Helper()
	require.NoError(t, c.Select(writePDF(t, "contract.pdf", 100)))
	_, err := c.Upload(context.Background())
	require.NoError(t, err)
}

func TestHappyPath(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.Select(writePDF(t, "contract.pdf", 100)))
	assert.Equal(t, StateSelected, c.State())

	ref, err := c.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc-1", ref.ID)
	assert.Equal(t, "contract.pdf", ref.Filename)
	assert.Equal(t, StateUploaded, c.State())

	s, err := c.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAnalyzed, c.State())
	assert.Contains(t, s.Risks, "Risk: unlimited liability")
	assert.False(t, c.FallbackUsed())
	assert.Empty(t, c.Exchanges(), "the initial analysis is not logged as an exchange")

	exchange, err := c.Ask(context.Background(), "How long is the term?")
	require.NoError(t, err)
	assert.Equal(t, "The term is 24 months.", exchange.ResponseText)
	assert.NotEmpty(t, exchange.ID)
	assert.Equal(t, StateAnalyzed, c.State())

	log := c.Exchanges()
	require.Len(t, log, 1)
	assert.Equal(t, "How long is the term?", log[0].Question)
}

func TestSelectRejectsOversizedFile(t *testing.T) {
	c := NewController(happyAPI(), Config{})
	path := writePDF(t, "huge.pdf", MaxFileSize+1)

	err := c.Select(path)

	var valErr *client.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, StateIdle, c.State(), "failed validation must not change state")
}

func TestSelectRejectsUnsupportedExtension(t *testing.T) {
	c := NewController(happyAPI(), Config{})

	err := c.Select(writePDF(t, "notes.txt", 10))

	var valErr *client.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Message, ".txt")
}

func TestPDFOnlyConfiguration(t *testing.T) {
	c := NewController(happyAPI(), Config{AcceptedExtensions: []string{".pdf"}})

	err := c.Select(writePDF(t, "contract.docx", 10))

	var valErr *client.ValidationError
	require.ErrorAs(t, err, &valErr)

	assert.NoError(t, c.Select(writePDF(t, "contract.pdf", 10)))
}

func TestUploadRequiresSelection(t *testing.T) {
	c := NewController(happyAPI(), Config{})

	_, err := c.Upload(context.Background())

	var valErr *client.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestUploadWithoutIDReturnsToSelected(t *testing.T) {
	api := happyAPI()
	api.uploadResp = &client.UploadResponse{Success: true}
	c := NewController(api, Config{})
	require.NoError(t, c.Select(writePDF(t, "contract.pdf", 100)))

	_, err := c.Upload(context.Background())

	var upErr *client.UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, StateSelected, c.State(), "missing identifier is re-enterable")
}

func TestAuthFailureParksInErrorState(t *testing.T) {
	api := happyAPI()
	api.uploadErr = &client.AuthError{StatusCode: 401, Message: "token expired"}
	c := NewController(api, Config{})
	require.NoError(t, c.Select(writePDF(t, "contract.pdf", 100)))

	_, err := c.Upload(context.Background())

	var authErr *client.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, err, c.Err())
}

func TestAnalyzeFallbackSummary(t *testing.T) {
	api := happyAPI()
	api.analyzeErr = &client.AnalysisError{Message: "AI service unavailable"}
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)

	s, err := c.Analyze(context.Background())
	require.NoError(t, err, "default policy degrades gracefully")

	assert.Equal(t, StateAnalyzed, c.State())
	assert.True(t, c.FallbackUsed())
	require.NotEmpty(t, s.KeyPoints)
	assert.Contains(t, s.KeyPoints[0], "contract.pdf")
	assert.Contains(t, s.KeyPoints[0], "placeholder", "fallback must be distinguishable")
}

func TestStrictAnalyzeSurfacesFailure(t *testing.T) {
	api := happyAPI()
	api.analyzeErr = &client.AnalysisError{Message: "AI service unavailable"}
	c := NewController(api, Config{StrictAnalyze: true})
	selectAndUpload(t, c, api)

	_, err := c.Analyze(context.Background())

	var anErr *client.AnalysisError
	require.ErrorAs(t, err, &anErr)
	assert.False(t, c.FallbackUsed())
	assert.Equal(t, StateUploaded, c.State(), "analysis failure is re-enterable")
}

func TestAnalyzeTimeoutIsRetryable(t *testing.T) {
	api := happyAPI()
	api.analyzeErr = &client.TimeoutError{Op: "analyze-document"}
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)

	_, err := c.Analyze(context.Background())

	var toErr *client.TimeoutError
	require.ErrorAs(t, err, &toErr)
	assert.Equal(t, StateUploaded, c.State())
	assert.False(t, c.FallbackUsed(), "timeouts get a retry, not a fallback")

	// Retry succeeds once the backend recovers.
	api.analyzeErr = nil
	_, err = c.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAnalyzed, c.State())
}

func TestAskTimeoutAppendsNothing(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	api.askErr = &client.TimeoutError{Op: "ask-ai"}
	_, err = c.Ask(context.Background(), "slow question")

	var toErr *client.TimeoutError
	require.ErrorAs(t, err, &toErr)
	assert.Empty(t, c.Exchanges())
	assert.Equal(t, StateAnalyzed, c.State())
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	_, err = c.Ask(context.Background(), "   ")

	var valErr *client.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, api.askCalls, "validation errors never reach the network")
}

func TestSingleFlight(t *testing.T) {
	api := happyAPI()
	api.blockAsk = make(chan struct{})
	api.askStarted = make(chan struct{})
	started := api.askStarted
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Ask(context.Background(), "first question")
	}()

	// Wait until the first ask is inside the API call.
	<-started

	_, err = c.Ask(context.Background(), "second question")
	assert.ErrorIs(t, err, ErrBusy)

	close(api.blockAsk)
	<-done
	assert.Equal(t, 1, api.askCalls)
}

func TestResetClearsEverything(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)
	_, err = c.Ask(context.Background(), "a question")
	require.NoError(t, err)

	c.Reset()

	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Selected())
	assert.Nil(t, c.Document())
	assert.Nil(t, c.Summary())
	assert.Empty(t, c.Exchanges())
	assert.Empty(t, c.RawResponse())
}

func TestSelectingNewFileDiscardsSession(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})
	selectAndUpload(t, c, api)
	_, err := c.Analyze(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Select(writePDF(t, "lease.pdf", 50)))

	assert.Equal(t, StateSelected, c.State())
	assert.Nil(t, c.Document())
	assert.Nil(t, c.Summary())
	assert.Empty(t, c.Exchanges())
}

func TestBreakerTripsAfterRepeatedFailures(t *testing.T) {
	api := happyAPI()
	api.analyzeErr = &client.AnalysisError{Message: "backend down"}
	c := NewController(api, Config{StrictAnalyze: true})
	selectAndUpload(t, c, api)

	for i := 0; i < 3; i++ {
		_, err := c.Analyze(context.Background())
		require.Error(t, err)
	}

	// Backend recovers, but the breaker is open and refuses immediately.
	api.analyzeErr = nil
	_, err := c.Analyze(context.Background())

	var anErr *client.AnalysisError
	require.ErrorAs(t, err, &anErr)
	assert.Contains(t, anErr.Message, "temporarily unavailable")
}

func TestResumeAllowsAnalyzeWithoutUpload(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})

	require.NoError(t, c.Resume(DocumentRef{ID: "doc-9", Filename: "old.pdf"}))
	assert.Equal(t, StateUploaded, c.State())

	_, err := c.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAnalyzed, c.State())
}

func TestResumeAnalyzedAllowsAskDirectly(t *testing.T) {
	api := happyAPI()
	c := NewController(api, Config{})

	require.NoError(t, c.ResumeAnalyzed(DocumentRef{ID: "doc-9", Filename: "old.pdf"}))

	exchange, err := c.Ask(context.Background(), "What is the term?")
	require.NoError(t, err)
	assert.Equal(t, "The term is 24 months.", exchange.ResponseText)
}

func TestResumeRejectsEmptyID(t *testing.T) {
	c := NewController(happyAPI(), Config{})

	err := c.Resume(DocumentRef{})

	var valErr *client.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, StateIdle, c.State())
}

func TestSuggestedQuestions(t *testing.T) {
	questions := SuggestedQuestions()
	require.Len(t, questions, 6)
	for _, q := range questions {
		assert.False(t, strings.TrimSpace(q) == "")
	}
}
