// Command javac-go is a source-to-bytecode compiler back end for a
// Java-like language: it reads one or more gob-encoded AST files (the
// shape a front end hands this package, internal/ast/gob.go) and
// emits JVM class files, major versions 50-52.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-javac/cmd/javac-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
