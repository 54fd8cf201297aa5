// Command lpr is the interactive calculator prompt.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lennyitb/lpr-runtime/pkg/lpr"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "SQLite database path (empty for in-memory)")
		evalStr = flag.String("e", "", "Evaluate one input and exit")
	)
	flag.Parse()

	// Positional path form, like `lpr session.db`.
	if *dbPath == "" && flag.NArg() > 0 {
		*dbPath = flag.Arg(0)
	}

	opts := []lpr.Option{}
	if *dbPath != "" {
		opts = append(opts, lpr.WithStorePath(*dbPath))
	}

	runtime, err := lpr.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer runtime.Close()

	if *evalStr != "" {
		if !runtime.Exec(*evalStr) {
			if s, ok := runtime.Repr(1); ok {
				fmt.Fprintf(os.Stderr, "** %s\n", s)
			}
			os.Exit(1)
		}
		displayStack(runtime)
		return
	}

	runREPL(runtime)
}

// displayStack prints the stack bottom-up, one level per line.
func displayStack(runtime *lpr.Runtime) {
	for level := runtime.Depth(); level >= 1; level-- {
		s, ok := runtime.Repr(level)
		if !ok {
			s = "?"
		}
		fmt.Printf("%d: %s\n", level, s)
	}
}
