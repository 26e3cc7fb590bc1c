package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	bplus "github.com/alihshawon/bplus-lang"
)

const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
)

func cyan(s string) string { return colorCyan + s + colorReset }
func red(s string) string  { return colorRed + s + colorReset }

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bplus_history"
	}
	return filepath.Join(home, ".bplus_history")
}

// runREPL drives the interactive shell. Incomplete input, judged by brace
// and paren balance, continues onto the next line; "prosthan" or Ctrl-D
// leaves the shell.
func runREPL(rt *bplus.Runtime) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	hist := historyPath()
	if f, err := os.Open(hist); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("B+ %s (%s error messages)\n", version, rt.Ev.Errors.Language())
	fmt.Println("Ber hote likhun: prosthan")

	var buf strings.Builder
	for {
		prompt := cyan(">> ")
		if buf.Len() > 0 {
			prompt = cyan(".. ")
		}

		input, err := line.Prompt(prompt)
		if err != nil {
			// Ctrl-C clears the pending buffer, Ctrl-D exits.
			if err == liner.ErrPromptAborted {
				buf.Reset()
				continue
			}
			fmt.Println()
			return nil
		}

		trimmed := strings.TrimSpace(input)
		if buf.Len() == 0 {
			if trimmed == "" {
				continue
			}
			if trimmed == "prosthan" || trimmed == "exit" {
				return nil
			}
		}

		buf.WriteString(input)
		buf.WriteByte('\n')
		if !balanced(buf.String()) {
			continue
		}

		src := buf.String()
		buf.Reset()
		line.AppendHistory(strings.TrimSpace(src))

		result, err := rt.RunSource("repl", src)
		if err != nil {
			fmt.Println(red(err.Error()))
			continue
		}
		switch result.(type) {
		case *bplus.Null:
		default:
			fmt.Println(result.Inspect())
		}
	}
}

// balanced reports whether braces and parens close, ignoring characters
// inside string literals.
func balanced(src string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, ch := range src {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}
	return depth <= 0
}
