// Package editor launches the user's editor on a prompt file.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Fallback is used when neither the config nor the environment names an editor
const Fallback = "vi"

// Program resolves the editor command: configured, then $VISUAL, then
// $EDITOR, then Fallback.
func Program(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return Fallback
}

// Launcher runs an editor program, which may carry arguments ("code -w")
type Launcher struct {
	Program string
}

// NewLauncher returns a launcher for the resolved editor program
func NewLauncher(configured string) *Launcher {
	return &Launcher{Program: Program(configured)}
}

// Cmd builds the command that edits path, attached to the terminal
func (l *Launcher) Cmd(path string) *exec.Cmd {
	fields := strings.Fields(l.Program)
	if len(fields) == 0 {
		fields = []string{Fallback}
	}
	args := append(fields[1:], path)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Launch runs the editor in the foreground and waits for it to exit
func (l *Launcher) Launch(path string) error {
	if err := l.Cmd(path).Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", l.Program, err)
	}
	return nil
}
