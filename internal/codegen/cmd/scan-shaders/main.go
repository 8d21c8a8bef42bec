package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alia5/mtlgen/internal/codegen/scanner"
)

// scan-shaders prints the declarations harvested from Metal sources as JSON.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scan-shaders <file.metal>...")
		os.Exit(2)
	}

	var files []*scanner.File
	for _, path := range os.Args[1:] {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
			os.Exit(1)
		}
		f, err := scanner.Parse(path, string(src))
		if err != nil {
			if perr, ok := err.(*scanner.ParseError); ok {
				fmt.Fprintln(os.Stderr, perr.FormatWithContext())
			} else {
				fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", path, err)
			}
			os.Exit(1)
		}
		files = append(files, f)
	}

	output, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
