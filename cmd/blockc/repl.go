package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/kartiknair/blockc/pkg/ast"
	"github.com/kartiknair/blockc/pkg/compiler"
)

const historyFile = ".blockc_history"

// opensBlock reports whether an entry needs more lines before it can be
// transpiled. Such entries end at the first empty line.
func opensBlock(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "fn", "if", "elif", "else", "for", "while":
		return true
	}
	return false
}

func readEntry(ln *liner.State) (string, error) {
	first, err := ln.Prompt("block> ")
	if err != nil {
		return "", err
	}
	if !opensBlock(first) {
		return first, nil
	}

	lines := []string{first}
	for {
		next, err := ln.Prompt("  ...> ")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(next) == "" {
			break
		}
		lines = append(lines, next)
	}
	return strings.Join(lines, "\n"), nil
}

// repl keeps every entry that transpiled so later entries see its
// declarations. Only the Python for the newest entry is printed.
func repl(c *cli.Context) error {
	home, _ := os.UserHomeDir()
	historyPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := []string{}
	emitted := 0

	for {
		entry, err := readEntry(ln)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))

		source := strings.Join(append(session, entry), "\n")
		r, err := compiler.Transpile(source, options(c)...)
		if err != nil {
			var e *ast.Error
			if errors.As(err, &e) {
				fmt.Fprintln(os.Stderr, e.Message)
				continue
			}
			return err
		}

		lines := strings.Split(r.Code, "\n")
		if emitted < len(lines) {
			fmt.Println(strings.Join(lines[emitted:], "\n"))
		}
		session = append(session, entry)
		emitted = len(lines)
	}
}
