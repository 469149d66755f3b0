package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/kobzarvs/gapedit/internal/app"
	"github.com/kobzarvs/gapedit/internal/logger"
)

func main() {
	debug := flag.Bool("debug", false, "show the raw gap buffer and log at debug level")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: gapedit [-debug] [path]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "gapedit: stdin and stdout must be a terminal")
		os.Exit(1)
	}

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "gapedit: logger:", err)
	}
	defer logger.Close()

	err := app.New(app.Options{Path: flag.Arg(0), Debug: *debug}).Run()
	if err != nil {
		logger.Error("gapedit exited with error", "error", err)
		_ = logger.Close()
		fmt.Fprintln(os.Stderr, "gapedit:", err)
		os.Exit(1)
	}
}
