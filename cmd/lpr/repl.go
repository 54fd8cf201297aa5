package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lennyitb/lpr-runtime/pkg/lpr"
)

func runREPL(runtime *lpr.Runtime) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       os.TempDir() + "/.lpr-history",
		InterruptPrompt:   "^C",
		EOFPrompt:         "q",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init prompt: %v\n", err)
		return
	}
	defer rl.Close()

	fmt.Println("LPR Runtime")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "q", "quit":
			return
		case "undo":
			if !runtime.Undo() {
				fmt.Println("nothing to undo")
			}
			displayStack(runtime)
			continue
		case "redo":
			if !runtime.Redo() {
				fmt.Println("nothing to redo")
			}
			displayStack(runtime)
			continue
		}

		if !runtime.Exec(input) {
			// The error is on the stack; show it distinctly.
			if s, ok := runtime.Repr(1); ok {
				fmt.Fprintf(os.Stderr, "** %s\n", s)
			}
		}
		displayStack(runtime)
	}
}
