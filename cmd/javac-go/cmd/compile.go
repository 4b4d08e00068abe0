package cmd

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/driver"
)

var (
	outputDir        string
	classpathEntries []string
	targetVersion    uint16
	disassemble      bool
	compileVerbose   bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [unit...]",
	Short: "Compile gob-encoded ASTs to JVM class files",
	Long: `Compile one or more gob-encoded ast.CompilationUnit files to .class
files (internal/ast/gob.go documents the wire format; this compiler
has no Java front end of its own, per spec.md §6.2).

Examples:
  # Compile one unit, writing .class files next to the current directory
  javac-go compile Main.ast

  # Compile several units against a classpath, writing into out/
  javac-go compile --classpath lib/rt.jar -o out A.ast B.ast

  # Compile and print the disassembled bytecode of each class produced
  javac-go compile --disassemble Main.ast

  # Force at least a Java 8 (52.0) class-file version
  javac-go compile --target 52 Main.ast`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "output directory for .class files")
	compileCmd.Flags().StringSliceVar(&classpathEntries, "classpath", nil, "classpath entry (directory or .jar/.zip); repeatable")
	compileCmd.Flags().Uint16Var(&targetVersion, "target", 0, "minimum class-file major version (50-52); 0 leaves the generator's own choice untouched")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print disassembled bytecode for each class produced")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func runCompile(_ *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "javac-go: ", 0)

	opts := []driver.Option{driver.WithLogger(logger)}
	for _, cp := range classpathEntries {
		opts = append(opts, driver.WithClasspath(cp))
	}

	units := make([]driver.Unit, 0, len(args))
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var unit ast.CompilationUnit
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&unit); err != nil {
			return fmt.Errorf("decoding AST in %s: %w", path, err)
		}

		if compileVerbose {
			fmt.Fprintf(os.Stderr, "loaded %s\n", path)
		}
		units = append(units, driver.Unit{AST: &unit, Source: "", File: path})
	}

	c := driver.New(opts...)
	defer c.Close()

	classes, err := c.Compile(units)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if len(classes) == 0 {
			return fmt.Errorf("compilation failed, no classes produced")
		}
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "compiled %d class(es)\n", len(classes))
	}

	if targetVersion != 0 {
		if targetVersion < classfile.DefaultMajorVersion || targetVersion > classfile.Java8MajorVersion {
			return fmt.Errorf("--target must be between %d and %d", classfile.DefaultMajorVersion, classfile.Java8MajorVersion)
		}
		for i, cls := range classes {
			classes[i].Bytes = classfile.SetTargetVersion(cls.Bytes, targetVersion)
		}
	}

	if disassemble {
		for _, cls := range classes {
			text, derr := classfile.Disassemble(cls.Bytes)
			if derr != nil {
				fmt.Fprintf(os.Stderr, "disassembling %s: %v\n", cls.InternalName, derr)
				continue
			}
			fmt.Fprintf(os.Stderr, "\n== %s ==\n%s", cls.InternalName, text)
		}
	}

	if werr := driver.WriteClasses(outputDir, classes); werr != nil {
		return fmt.Errorf("writing class files: %w", werr)
	}

	if compileVerbose {
		for _, cls := range classes {
			path := filepath.Join(outputDir, filepath.FromSlash(cls.InternalName)+".class")
			fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", path, len(cls.Bytes))
		}
	} else {
		fmt.Printf("compiled %d class(es) -> %s\n", len(classes), outputDir)
	}

	return err
}
