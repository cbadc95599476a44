package clipboard

import (
	"errors"
	"runtime"
	"testing"
)

func TestClipboardError(t *testing.T) {
	err := NewClipboardError()

	if err.OS != runtime.GOOS {
		t.Errorf("Expected OS to be %s, got %s", runtime.GOOS, err.OS)
	}

	if err.Error() == "" {
		t.Error("Error message should not be empty")
	}

	if !IsMissingUtility(err) {
		t.Error("Should be recognized as a missing utility")
	}
}

func TestCopy(t *testing.T) {
	var got string
	c := &Copier{write: func(s string) error { got = s; return nil }}

	if err := c.Copy("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Expected %q, got %q", "hello", got)
	}
}

func TestCopyFailures(t *testing.T) {
	tests := []struct {
		name        string
		copier      *Copier
		wantMissing bool
	}{
		{
			name: "unsupported",
			copier: &Copier{
				write:       func(string) error { return nil },
				unsupported: func() bool { return true },
			},
			wantMissing: true,
		},
		{
			name:   "write fails",
			copier: &Copier{write: func(string) error { return errors.New("exit status 1") }},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.copier.Copy("x")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if IsMissingUtility(err) != tt.wantMissing {
				t.Errorf("IsMissingUtility = %v, want %v", !tt.wantMissing, tt.wantMissing)
			}
		})
	}
}

func TestGetInstallInstructions(t *testing.T) {
	if GetInstallInstructions() == "" {
		t.Error("Install instructions should not be empty")
	}
}
