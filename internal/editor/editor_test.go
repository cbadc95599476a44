package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		visual     string
		editor     string
		want       string
	}{
		{"configured wins", "nano", "code", "vim", "nano"},
		{"visual before editor", "", "code -w", "vim", "code -w"},
		{"editor", "", "", "vim", "vim"},
		{"fallback", "", "", "", Fallback},
		{"blank ignored", "  ", " ", "emacs", "emacs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VISUAL", tt.visual)
			t.Setenv("EDITOR", tt.editor)
			assert.Equal(t, tt.want, Program(tt.configured))
		})
	}
}

func TestCmdSplitsArguments(t *testing.T) {
	l := &Launcher{Program: "code -w"}
	cmd := l.Cmd("/tmp/a.md")
	assert.Equal(t, []string{"code", "-w", "/tmp/a.md"}, cmd.Args)

	l = &Launcher{Program: ""}
	cmd = l.Cmd("/tmp/a.md")
	assert.Equal(t, []string{Fallback, "/tmp/a.md"}, cmd.Args)
}

func TestLaunchReportsFailure(t *testing.T) {
	l := &Launcher{Program: "promptdeck-no-such-editor"}
	assert.Error(t, l.Launch("/tmp/a.md"))
}
