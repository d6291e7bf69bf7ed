// Package clipboard copies text to the system clipboard by piping it to the
// platform's clipboard tool.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool found")

// Writer receives copied text.
type Writer interface {
	Write(text string) error
}

// System writes to the system clipboard.
type System struct{}

// Write implements Writer.
func (System) Write(text string) error {
	return Write(text)
}

// Write copies text to the system clipboard.
func Write(text string) error {
	name, args, err := command(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Available reports whether a clipboard tool can be found.
func Available() bool {
	_, _, err := command(runtime.GOOS, exec.LookPath)
	return err == nil
}

type candidate struct {
	name string
	args []string
}

var unixTools = []candidate{
	{"wl-copy", nil},
	{"xclip", []string{"-selection", "clipboard"}},
	{"xsel", []string{"--clipboard", "--input"}},
}

// command picks the clipboard tool for goos.
func command(goos string, lookPath func(string) (string, error)) (string, []string, error) {
	switch goos {
	case "darwin":
		return "pbcopy", nil, nil
	case "windows":
		return "cmd", []string{"/c", "clip"}, nil
	}

	for _, c := range unixTools {
		if _, err := lookPath(c.name); err == nil {
			return c.name, c.args, nil
		}
	}
	return "", nil, ErrUnavailable
}
