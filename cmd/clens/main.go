package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/clens/internal/source"
	"github.com/user/clens/internal/ui"
	"github.com/user/clens/pkg/delim"
)

func main() {
	delimFlag := flag.String("d", "", "Delimiter to use for parsing the file (one character)")
	debugFlag := flag.Bool("debug", false, "Show stats for debugging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: clens [-d delimiter] [--debug] <file>\n")
		fmt.Fprintf(os.Stderr, "  -d\tDelimiter to use for parsing the file\n")
		fmt.Fprintf(os.Stderr, "  --debug\tShow stats for debugging\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *delimFlag, *debugFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(filename, delimiter string, debug bool) error {
	// Reject a bad delimiter before touching the file.
	var comma byte
	if delimiter != "" {
		var err error
		comma, err = delim.Parse(delimiter)
		if err != nil {
			return err
		}
	}

	src, err := source.Open(filename)
	if err != nil {
		return err
	}
	defer src.Close()

	model, err := ui.NewModel(ui.ModelOptions{
		Filename: filename,
		Path:     src.EffectivePath(),
		Comma:    comma,
		Debug:    debug,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return model.Err()
}
