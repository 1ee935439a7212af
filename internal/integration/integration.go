// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"os/exec"
	"path/filepath"
	"text/template"
)

// ZshTrace contains the zsh shell integration script that records cd and ls
// into a trace log.
//
//go:embed zsh-trace.sh
var ZshTrace string

// Render renders the integration script with the path of the local zsh.
func Render() (string, error) {
	zsh, err := exec.LookPath("zsh")
	if err != nil {
		return "", err
	}

	return render(filepath.ToSlash(zsh))
}

// render substitutes the zsh path into the script template.
func render(zsh string) (string, error) {
	tmpl, err := template.New("zsh-trace").Parse(ZshTrace)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"ZSH": zsh,
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
