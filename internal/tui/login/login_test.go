// ABOUTME: Tests for the login form component
// ABOUTME: Validates rendering, cancel handling, and error display

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestViewContainsFields(t *testing.T) {
	m := New()
	m.Init()

	view := m.View()
	if !strings.Contains(view, "Email") {
		t.Error("expected view to contain the email field")
	}
	if !strings.Contains(view, "Password") {
		t.Error("expected view to contain the password field")
	}
}

func TestEscReturnsCancelMsg(t *testing.T) {
	m := New()
	m.Init()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected command for cancel")
	}

	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestSetErrorShowsMessageAndClearsPassword(t *testing.T) {
	m := New()
	m.Init()
	m.password = "secret"

	m.SetError("invalid credentials")

	if m.password != "" {
		t.Error("expected password to be cleared for retry")
	}
	if !strings.Contains(m.View(), "invalid credentials") {
		t.Error("expected error message in view")
	}
}

func TestValidationMessages(t *testing.T) {
	if !strings.Contains(errEmail.Error(), "email") {
		t.Error("expected email validation message to mention email")
	}
	if !strings.Contains(errPassword.Error(), "password") {
		t.Error("expected password validation message to mention password")
	}
}
