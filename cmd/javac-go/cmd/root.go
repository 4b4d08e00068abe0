package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "javac-go",
	Short: "JVM class-file compiler back end",
	Long: `javac-go lowers a Java-like AST to JVM class files.

It has no front end of its own: a compile command's input is the
gob-encoded AST a parser would hand it (internal/ast/gob.go). It
implements the nine-component pipeline described in spec.md: type
model, class-file builder, bytecode emitter, class-path resolver,
signature codec, symbol resolution, and the expression/statement/
declaration compiler.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
