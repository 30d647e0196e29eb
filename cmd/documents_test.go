// ABOUTME: Tests for the documents and history commands
// ABOUTME: Verifies listing, download validation, and history output

package cmd

import (
	"bytes"
	"context"
	"testing"
)

func TestDocumentsList(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	var buf bytes.Buffer
	exitCode := runDocumentsList(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("contract.pdf")) {
		t.Errorf("expected document name in output, got %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("completed")) {
		t.Errorf("expected analysis status in output, got %s", buf.String())
	}
}

func TestDocumentsListRequiresAuth(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)

	var buf bytes.Buffer
	exitCode := runDocumentsList(context.Background(), &buf)

	if exitCode != exitNoAuth {
		t.Errorf("expected exit code %d, got %d: %s", exitNoAuth, exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("lexibridge login")) {
		t.Errorf("expected login hint, got %s", buf.String())
	}
}

func TestDownloadRejectsConflictingArgs(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	downloadAll = true
	defer func() { downloadAll = false }()

	var buf bytes.Buffer
	exitCode := runDocumentsDownload(context.Background(), &buf, "doc-1")

	if exitCode != exitUsage {
		t.Errorf("expected exit code %d, got %d", exitUsage, exitCode)
	}
}

func TestDownloadRequiresTarget(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	var buf bytes.Buffer
	exitCode := runDocumentsDownload(context.Background(), &buf, "")

	if exitCode != exitUsage {
		t.Errorf("expected exit code %d, got %d", exitUsage, exitCode)
	}
}

func TestHistoryOutput(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	var buf bytes.Buffer
	exitCode := runHistory(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Q: What is the term?")) {
		t.Errorf("expected question in output, got %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("A: Twelve months.")) {
		t.Errorf("expected answer in output, got %s", buf.String())
	}
}

func TestHistoryFilterByDocument(t *testing.T) {
	server := fakeBackend(t)
	setupCmdTest(t, server)
	loginForTest(t)

	historyDocumentID = "doc-other"
	defer func() { historyDocumentID = "" }()

	var buf bytes.Buffer
	exitCode := runHistory(context.Background(), &buf)

	if exitCode != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("No history yet.")) {
		t.Errorf("expected empty filtered history, got %s", buf.String())
	}
}
