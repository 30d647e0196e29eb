// ABOUTME: Tests for the upload, analyze, and ask commands
// ABOUTME: Exercises the document workflow end to end against a fake backend

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPDF creates a small file with a pdf extension
func writeTestPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadRecordsDocument(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	var buf bytes.Buffer
	exitCode := runUpload(context.Background(), &buf, writeTestPDF(t))

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Document ID: doc-1")) {
		t.Errorf("expected document ID in output, got %s", buf.String())
	}

	current, ok := newRecentDocs().Current()
	if !ok || current.DocumentID != "doc-1" {
		t.Errorf("expected doc-1 recorded as current document, got %+v", current)
	}
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	exitCode := runUpload(context.Background(), &buf, path)

	if exitCode != exitUsage {
		t.Errorf("expected exit code %d, got %d: %s", exitUsage, exitCode, buf.String())
	}
}

func TestUploadWithAnalyze(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	uploadAnalyze = true
	defer func() { uploadAnalyze = false }()

	var buf bytes.Buffer
	exitCode := runUpload(context.Background(), &buf, writeTestPDF(t))

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Twelve month term")) {
		t.Errorf("expected extracted key point in output, got %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Unlimited liability risk")) {
		t.Errorf("expected extracted risk in output, got %s", buf.String())
	}
}

func TestAnalyzeUsesRecentDocument(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	var buf bytes.Buffer
	if code := runUpload(context.Background(), &buf, writeTestPDF(t)); code != exitOK {
		t.Fatalf("upload failed: %s", buf.String())
	}

	buf.Reset()
	exitCode := runAnalyze(context.Background(), &buf, "")

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Key Points:")) {
		t.Errorf("expected summary sections in output, got %s", buf.String())
	}
}

func TestAnalyzeWithoutDocumentIsUsageError(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	var buf bytes.Buffer
	exitCode := runAnalyze(context.Background(), &buf, "")

	if exitCode != exitUsage {
		t.Errorf("expected exit code %d, got %d", exitUsage, exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("no document selected")) {
		t.Errorf("expected guidance in output, got %s", buf.String())
	}
}

func TestAskPrintsAnswer(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	askDocumentID = "doc-1"
	defer func() { askDocumentID = "" }()

	var buf bytes.Buffer
	exitCode := runAsk(context.Background(), &buf, "What is the term?")

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("The term is twelve months.")) {
		t.Errorf("expected answer in output, got %s", buf.String())
	}
}

func TestSuggestListsQuestions(t *testing.T) {
	var buf bytes.Buffer
	exitCode := runSuggest(&buf)

	if exitCode != exitOK {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("1.")) {
		t.Error("expected numbered questions in output")
	}
}
