// Command marktex compiles marktex markup into LaTeX source.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/marktex/marktex/pkg/marktex"
)

func main() {
	var (
		evalStr    = flag.String("e", "", "Compile a marktex string")
		file       = flag.String("f", "", "Compile a marktex file")
		outPath    = flag.String("o", "", "Write LaTeX output to a file (default stdout)")
		headerPath = flag.String("header", "", "Document header YAML file")
		debugDB    = flag.String("debug-db", "", "Persist stage dumps to a SQLite database")
		strict     = flag.Bool("strict", false, "Treat duplicate keyword/object keys as errors")
		noPreamble = flag.Bool("no-preamble", false, "Emit only the translated body")
	)

	flag.Parse()

	opts := []marktex.Option{
		marktex.WithWarningHandler(func(w marktex.Warning) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}),
	}
	if *headerPath != "" {
		header, err := marktex.LoadHeader(*headerPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading header: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, marktex.WithHeader(header))
	}
	if *debugDB != "" {
		opts = append(opts, marktex.WithSQLiteDumps(*debugDB))
	}
	if *strict {
		opts = append(opts, marktex.WithStrictKeys())
	}
	if *noPreamble {
		opts = append(opts, marktex.WithNoPreamble())
	}

	compiler := marktex.New(opts...)
	defer compiler.Close()

	var result string
	var err error

	switch {
	case *evalStr != "":
		result, err = compiler.Compile(*evalStr)

	case *file != "":
		result, err = compiler.CompileFile(*file)

	case !isTerminal(os.Stdin):
		var input []byte
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		result, err = compiler.Compile(string(input))

	default:
		fmt.Fprintln(os.Stderr, "Usage: marktex -f input.mtx [-o out.tex] [-header header.yaml]")
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(result), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(result)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
