// ABOUTME: Shared test helpers and exit-code tests for the cmd package
// ABOUTME: Provides a fake backend and sandboxed config directory

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexibridge/lexibridge-cli/internal/client"
)

// fakeBackend serves the subset of backend endpoints the commands hit
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.FormValue("password") == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(client.AuthResponse{
			Success:     true,
			User:        client.Identity{ID: "u-1", Email: r.FormValue("email"), FullName: "Test User"},
			AccessToken: "tok-abc",
		})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.HealthResponse{Status: "healthy", Database: "connected", AIService: "configured"})
	})
	mux.HandleFunc("/upload-document", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"documentId":   "doc-1",
			"documentName": "contract.pdf",
			"fileSize":     2048,
		})
	})
	mux.HandleFunc("/analyze-document", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.AnalyzeResponse{
			Success:    true,
			DocumentID: "doc-1",
			AISummary:  "Key Points:\n- Twelve month term\n\nRisks:\n- Unlimited liability risk\n",
		})
	})
	mux.HandleFunc("/ask-ai", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.AskResponse{
			Success:    true,
			AIResponse: "The term is twelve months.",
		})
	})
	mux.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"documents": []client.Document{
				{ID: "doc-1", DocumentName: "contract.pdf", FileSize: 2048, AnalysisStatus: "completed"},
			},
		})
	})
	mux.HandleFunc("/chat-history", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"chatHistory": []client.HistoryEntry{
				{DocumentID: "doc-1", DocumentName: "contract.pdf", Question: "What is the term?", AIResponse: "Twelve months."},
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// setupCmdTest sandboxes config state and points the CLI at the fake backend
func setupCmdTest(t *testing.T, server *httptest.Server) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LEXIBRIDGE_API_URL", "")

	apiURL = server.URL
	t.Cleanup(func() { apiURL = "" })
}

// loginForTest establishes a stored session against the fake backend
func loginForTest(t *testing.T) {
	t.Helper()
	loginEmail = "user@example.com"
	loginPassword = "pw"
	t.Cleanup(func() { loginEmail, loginPassword = "", "" })

	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf); code != exitOK {
		t.Fatalf("login failed with code %d: %s", code, buf.String())
	}
}

func TestReportErrorAuth(t *testing.T) {
	var buf bytes.Buffer
	code := reportError(&buf, &client.AuthError{Message: "token rejected"})

	if code != exitNoAuth {
		t.Errorf("expected exit code %d, got %d", exitNoAuth, code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("lexibridge login")) {
		t.Error("expected login hint in output")
	}
}

func TestReportErrorValidation(t *testing.T) {
	var buf bytes.Buffer
	code := reportError(&buf, &client.ValidationError{Message: "file too large"})

	if code != exitUsage {
		t.Errorf("expected exit code %d, got %d", exitUsage, code)
	}
}

func TestReportErrorTimeout(t *testing.T) {
	var buf bytes.Buffer
	code := reportError(&buf, &client.TimeoutError{Op: "ask"})

	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("retried")) {
		t.Error("expected retry hint in output")
	}
}

func TestReportErrorGeneric(t *testing.T) {
	var buf bytes.Buffer
	code := reportError(&buf, errors.New("boom"))

	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
}
