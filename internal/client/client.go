// ABOUTME: HTTP client for the LexiBridge document-analysis API
// ABOUTME: Wraps auth, upload, analysis, and Q&A endpoints with typed error handling

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultAskTimeout bounds the analyze and ask-ai calls, which are the only
// long-running operations. Exceeding it surfaces a TimeoutError.
const DefaultAskTimeout = 30 * time.Second

// DefaultUploadTimeout bounds the document upload call.
const DefaultUploadTimeout = 2 * time.Minute

// TokenSource provides the bearer token for authenticated requests and is
// told to discard it when the backend rejects it.
type TokenSource interface {
	Token() string
	Invalidate()
}

// Client is the API client for the LexiBridge backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	// AskTimeout overrides DefaultAskTimeout when set.
	AskTimeout time.Duration
}

// New creates a new API client with the given base URL and token source.
// A nil token source is allowed for unauthenticated use (login, register,
// health).
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
	}
}

// Identity is the user record returned by login and register
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// AuthResponse represents the /login and /register response
type AuthResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	User        Identity `json:"user"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
}

// Document represents one entry in the /documents listing
type Document struct {
	ID             string `json:"id"`
	DocumentName   string `json:"documentName"`
	OriginalName   string `json:"originalFilename"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
	FileSize       int64  `json:"fileSize"`
	HasSummary     bool   `json:"hasSummary"`
	AnalysisStatus string `json:"analysisStatus"`
	SummaryPreview string `json:"summaryPreview"`
}

// DocumentDetail is the full record from /documents/{id}
type DocumentDetail struct {
	ID             string `json:"id"`
	DocumentName   string `json:"documentName"`
	OriginalName   string `json:"originalFilename"`
	Content        string `json:"documentContent"`
	AISummary      string `json:"aiSummary"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
	FileSize       int64  `json:"fileSize"`
	AnalysisStatus string `json:"analysisStatus"`
}

// UploadResponse represents the /upload-document response. The backend has
// shipped several shapes for the identifier field, so all known variants are
// captured and resolved in priority order.
type UploadResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DocumentName   string `json:"documentName"`
	FileSize       int64  `json:"fileSize"`
	AnalysisStatus string `json:"analysisStatus"`

	CamelID any `json:"documentId"`
	ShortID any `json:"id"`
	MongoID any `json:"_id"`
	SnakeID any `json:"document_id"`
}

// DocumentID resolves the document identifier from the known field names,
// in priority order: documentId, id, _id, document_id.
func (r *UploadResponse) DocumentID() (string, error) {
	for _, v := range []any{r.CamelID, r.ShortID, r.MongoID, r.SnakeID} {
		if id := stringifyID(v); id != "" {
			return id, nil
		}
	}
	return "", &UploadError{Message: "upload response did not include a document identifier"}
}

// stringifyID renders string or numeric identifiers; anything else is absent
func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}

// AnalyzeResponse represents the /analyze-document response
type AnalyzeResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseID   string `json:"responseId"`
	DocumentID   string `json:"documentId"`
	DocumentName string `json:"documentName"`
	AISummary    string `json:"aiSummary"`
	Timestamp    string `json:"timestamp"`
}

// AskResponse represents the /ask-ai response
type AskResponse struct {
	Success    bool   `json:"success"`
	ResponseID string `json:"responseId"`
	Question   string `json:"userMessage"`
	AIResponse string `json:"aiResponse"`
	ErrorText  string `json:"error"`
	Timestamp  string `json:"timestamp"`
}

// HistoryEntry is one exchange from /chat-history
type HistoryEntry struct {
	ResponseID   string `json:"responseId"`
	DocumentID   string `json:"documentId"`
	DocumentName string `json:"documentName"`
	Question     string `json:"userMessage"`
	AIResponse   string `json:"aiResponse"`
	Timestamp    string `json:"timestamp"`
}

// HealthResponse represents the /health endpoint response
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	AIService string `json:"ai_service"`
	Version   string `json:"version"`
}

// errorBody is the error shape the backend returns on non-2xx responses
type errorBody struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	switch {
	case b.Detail != "":
		return b.Detail
	case b.Error != "":
		return b.Error
	default:
		return b.Message
	}
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	form := url.Values{"email": {email}, "password": {password}}
	return c.postAuthForm(ctx, "/login", form)
}

// Register creates a new account. The backend stores the full name as the
// username.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (*AuthResponse, error) {
	form := url.Values{"username": {fullName}, "email": {email}, "password": {password}}
	return c.postAuthForm(ctx, "/register", form)
}

// postAuthForm sends a form-encoded auth request and enforces the auth
// failure contract: network errors, non-2xx responses, and responses missing
// the token field all surface as AuthError.
func (c *Client) postAuthForm(ctx context.Context, path string, form url.Values) (*AuthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Message: fmt.Sprintf("cannot reach backend at %s", c.baseURL)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.text() != "" {
			return nil, &AuthError{StatusCode: resp.StatusCode, Message: body.text()}
		}
		return nil, &AuthError{StatusCode: resp.StatusCode, Message: "authentication failed"}
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, &AuthError{Message: "invalid response from backend"}
	}
	if auth.AccessToken == "" {
		return nil, &AuthError{Message: "response did not include an access token"}
	}

	return &auth, nil
}

// Documents calls GET /documents
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var payload struct {
		Success   bool       `json:"success"`
		Documents []Document `json:"documents"`
	}
	if err := c.getJSON(ctx, "/documents", &payload); err != nil {
		return nil, err
	}
	return payload.Documents, nil
}

// Document calls GET /documents/{id}
func (c *Client) Document(ctx context.Context, id string) (*DocumentDetail, error) {
	var payload struct {
		Success  bool           `json:"success"`
		Document DocumentDetail `json:"document"`
	}
	if err := c.getJSON(ctx, "/documents/"+url.PathEscape(id), &payload); err != nil {
		return nil, err
	}
	return &payload.Document, nil
}

// DownloadDocument streams GET /documents/{id}/download into w and returns
// the number of bytes written.
func (c *Client) DownloadDocument(ctx context.Context, id string, w io.Writer) (int64, error) {
	req, err := c.bearerRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/download", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, c.transportError(ctx, "download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, c.statusError(resp, func(msg string) error {
			return fmt.Errorf("download failed: %s", msg)
		})
	}

	return io.Copy(w, resp.Body)
}

// DeleteDocument calls DELETE /documents/{id}
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	req, err := c.bearerRequest(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, "delete", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.statusError(resp, func(msg string) error {
			return fmt.Errorf("delete failed: %s", msg)
		})
	}
	return nil
}

// UploadDocument transmits the file as a single multipart request to
// POST /upload-document.
func (c *Client) UploadDocument(ctx context.Context, path string) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultUploadTimeout)
	defer cancel()

	req, err := c.bearerRequest(ctx, http.MethodPost, "/upload-document", strings.NewReader(buf.String()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "upload", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, func(msg string) error {
			return &UploadError{Message: msg}
		})
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var upload UploadResponse
	if err := dec.Decode(&upload); err != nil {
		return nil, &UploadError{Message: "invalid upload response from backend"}
	}
	return &upload, nil
}

// AnalyzeDocument calls POST /analyze-document with the document identifier
// and returns the AI-generated summary text.
func (c *Client) AnalyzeDocument(ctx context.Context, documentID string) (*AnalyzeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.askDeadline())
	defer cancel()

	form := url.Values{"documentId": {documentID}}
	req, err := c.bearerRequest(ctx, http.MethodPost, "/analyze-document", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "analyze-document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, func(msg string) error {
			return &AnalysisError{Message: msg}
		})
	}

	var result AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &AnalysisError{Message: "invalid analysis response from backend"}
	}
	if result.AISummary == "" {
		if result.Message != "" && !result.Success {
			return nil, &AnalysisError{Message: result.Message}
		}
		return nil, &AnalysisError{Message: "analysis returned no content"}
	}
	return &result, nil
}

// AskAI calls POST /ask-ai with a question, scoped to a document when a
// documentId is given. The response must carry an aiResponse field; an error
// field takes its place on failure.
func (c *Client) AskAI(ctx context.Context, documentID, question string) (*AskResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.askDeadline())
	defer cancel()

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("question", question); err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if documentID != "" {
		if err := mw.WriteField("documentId", documentID); err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := c.bearerRequest(ctx, http.MethodPost, "/ask-ai", strings.NewReader(buf.String()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "ask-ai", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, func(msg string) error {
			return &AnalysisError{Message: msg}
		})
	}

	var ask AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&ask); err != nil {
		return nil, &AnalysisError{Message: "invalid response from backend"}
	}
	if ask.AIResponse == "" {
		if ask.ErrorText != "" {
			return nil, &AnalysisError{Message: ask.ErrorText}
		}
		return nil, &AnalysisError{Message: "AI returned no response"}
	}
	return &ask, nil
}

// ChatHistory calls GET /chat-history
func (c *Client) ChatHistory(ctx context.Context) ([]HistoryEntry, error) {
	var payload struct {
		Success bool           `json:"success"`
		History []HistoryEntry `json:"chatHistory"`
	}
	if err := c.getJSON(ctx, "/chat-history", &payload); err != nil {
		return nil, err
	}
	return payload.History, nil
}

// Profile calls GET /profile
func (c *Client) Profile(ctx context.Context) (*Identity, error) {
	var payload struct {
		Success bool     `json:"success"`
		User    Identity `json:"user"`
	}
	if err := c.getJSON(ctx, "/profile", &payload); err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// Health calls the unauthenticated /health endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "health", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &health, nil
}

// getJSON performs an authenticated GET and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := c.bearerRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, func(msg string) error {
			return fmt.Errorf("backend error: %s", msg)
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// bearerRequest builds a request carrying the bearer token. A missing token
// is reported as AuthError without touching the network.
func (c *Client) bearerRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token == "" {
		return nil, &AuthError{Message: "not logged in"}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// transportError classifies a failed round trip: a blown deadline becomes
// TimeoutError, everything else NetworkError.
func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	return &NetworkError{URL: c.baseURL, Err: err}
}

// statusError maps a non-2xx response to a typed error. A 401 invalidates
// the session before reporting, so a stale token is never reused.
func (c *Client) statusError(resp *http.Response, wrap func(msg string) error) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.text()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.tokens != nil {
			c.tokens.Invalidate()
		}
		if msg == "" {
			msg = "session expired, please log in again"
		}
		return &AuthError{StatusCode: resp.StatusCode, Message: msg}
	}

	if msg == "" {
		msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return wrap(msg)
}

func (c *Client) askDeadline() time.Duration {
	if c.AskTimeout > 0 {
		return c.AskTimeout
	}
	return DefaultAskTimeout
}
