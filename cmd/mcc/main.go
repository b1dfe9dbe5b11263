package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"flag"

	"github.com/capybara84/mcc"
)

const defaultWritePermission = 0644 // -rw-r--r--

type args struct {
	help    *bool
	dl      *bool
	dp      *bool
	ds      *bool
	verbose *int
}

func readArgs() *args {
	a := &args{
		help: flag.Bool("h", false, "show help and exit"),

		dl: flag.Bool("dl", false, "enable the scanner debug channel"),
		dp: flag.Bool("dp", false, "enable the parser debug channel"),
		ds: flag.Bool("ds", false, "enable the symbol debug channel"),

		verbose: flag.Int("v", 0, "set verbose level 0-3 (2 implies -dl -dp, 3 also implies -ds)"),
	}
	flag.Parse()
	return a
}

func showHelp() {
	fmt.Println("mcc - mini c compiler")
	fmt.Println("usage: mcc [-h] [-dl] [-dp] [-ds] [-v N] file...")
	fmt.Println("option")
	fmt.Println("  -h       help")
	fmt.Println("  -dl      enable the scanner debug channel (no trace output)")
	fmt.Println("  -dp      enable the parser debug channel (no trace output)")
	fmt.Println("  -ds      enable the symbol debug channel (no trace output)")
	fmt.Println("  -v N     set verbose level N")
}

// outputName replaces filename's extension with ".s", appending it if
// filename has no extension.
func outputName(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return filename + ".s"
	}
	return strings.TrimSuffix(filename, ext) + ".s"
}

func compileFile(debug *mcc.DebugConfig, filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	ctx := mcc.NewContext(debug)
	if err := mcc.ParseFile(ctx, filename, src); err != nil {
		return err
	}
	for _, w := range ctx.Warnings {
		fmt.Fprintln(os.Stdout, w.String())
	}

	asm, err := mcc.Generate(ctx)
	if err != nil {
		return err
	}
	return os.WriteFile(outputName(filename), []byte(asm), defaultWritePermission)
}

func main() {
	a := readArgs()
	if *a.help || flag.NArg() == 0 {
		showHelp()
		os.Exit(0)
	}

	debug := mcc.NewDebugConfig()
	if *a.dl {
		debug.Enable("scanner")
	}
	if *a.dp {
		debug.Enable("parser")
	}
	if *a.ds {
		debug.Enable("symbol")
	}
	debug.SetVerbose(*a.verbose)

	failed := 0
	for _, filename := range flag.Args() {
		if err := compileFile(debug, filename); err != nil {
			log.Printf("%s: %s", filename, err)
			failed++
		}
	}
	os.Exit(failed)
}
