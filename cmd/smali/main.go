// Command smali is a CLI front end over pkgs/smali: parse a file and report
// errors, pretty-print it back to canonical form, query it for methods and
// fields, or run the round-trip validator standalone. It is pure glue —
// every case below only sets the pkgs/validate toggles and calls
// pkgs/smali.FromPath/.Format()/.Find* — per
// spec.md §1's note that CLI/logging wiring is an external collaborator,
// not part of the core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/smali/pkgs/smali"
	"github.com/aledsdavies/smali/pkgs/validate"
)

// Exit code constants, grounded on the teacher's cmd/devcmd/main.go.
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitParseError       = 3
	ExitQueryError       = 4
)

func main() {
	root := &cobra.Command{
		Use:           "smali",
		Short:         "Parse, print, and query Smali source files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newPrintCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		code := ExitInvalidArguments
		if ee, ok := err.(exitErr); ok {
			code = ee.code
		}
		fmt.Fprintf(os.Stderr, "smali: %v\n", err)
		os.Exit(code)
	}
}

func newParseCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "parse <file.smali>",
		Short: "Parse a file and report errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if strict {
				validate.Statements.Store(true)
			}
			f, err := smali.FromPath(args[0])
			if err != nil {
				return exitErr{code: ExitParseError, err: err}
			}
			fmt.Printf("parsed %s: %d top-level item(s)\n", args[0], len(f.Root.Items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unconsumed trailing fields per statement")
	return cmd
}

func newPrintCmd() *cobra.Command {
	var diff bool
	cmd := &cobra.Command{
		Use:   "print <file.smali>",
		Short: "Pretty-print a file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := smali.FromPath(args[0])
			if err != nil {
				return exitErr{code: ExitParseError, err: err}
			}
			out, err := f.Format()
			if err != nil {
				return exitErr{code: ExitParseError, err: err}
			}
			if diff {
				if out == f.RawCode {
					fmt.Println("no differences")
				} else {
					fmt.Println(out)
				}
				return nil
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "print nothing but \"no differences\" when the reprint exactly matches the source")
	return cmd
}

func newFindCmd() *cobra.Command {
	var methodName, prototype, fieldName string
	cmd := &cobra.Command{
		Use:   "find <file.smali>",
		Short: "Query methods or fields by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := smali.FromPath(args[0])
			if err != nil {
				return exitErr{code: ExitParseError, err: err}
			}

			switch {
			case methodName != "" && prototype != "":
				b, ferr := f.FindMethod(methodName, prototype)
				if ferr != nil {
					return exitErr{code: ExitQueryError, err: ferr}
				}
				if b == nil {
					return exitErr{code: ExitQueryError, err: fmt.Errorf("no method %s%s found", methodName, prototype)}
				}
				fmt.Printf("%s%s: %d item(s)\n", methodName, prototype, len(b.Items))
			case methodName != "":
				blocks := f.FindMethods(methodName)
				if len(blocks) == 0 {
					return exitErr{code: ExitQueryError, err: fmt.Errorf("no method named %s found", methodName)}
				}
				for _, b := range blocks {
					head := b.Head()
					fmt.Printf("%s(%s)%s\n", head.MemberName, head.MethodParams, head.MethodResultType)
				}
			case fieldName != "":
				match := f.FindField(fieldName)
				if match == nil {
					return exitErr{code: ExitQueryError, err: fmt.Errorf("no field named %s found", fieldName)}
				}
				fmt.Printf("found field %s\n", fieldName)
			default:
				return exitErr{code: ExitInvalidArguments, err: fmt.Errorf("one of --method or --field is required")}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&methodName, "method", "", "method name to look up")
	cmd.Flags().StringVar(&prototype, "prototype", "", "method prototype, e.g. \"(I)V\" (requires --method)")
	cmd.Flags().StringVar(&fieldName, "field", "", "field name to look up")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.smali>",
		Short: "Round-trip check a file without printing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			validate.Files.Store(true)
			_, err := smali.FromPath(args[0])
			if err != nil {
				switch err.(type) {
				case *validate.ValidationWarning, *validate.WhitespaceWarning:
					fmt.Fprintf(os.Stderr, "warning: %v\n", err)
					fmt.Println("ok (with warnings)")
					return nil
				default:
					return exitErr{code: ExitParseError, err: err}
				}
			}
			fmt.Println("ok")
			return nil
		},
	}
	return cmd
}

// exitErr carries the exit code a failed RunE should terminate with,
// surfaced by main's os.Exit after main prints the wrapped error (cobra's
// own error printing is silenced).
type exitErr struct {
	code int
	err  error
}

func (e exitErr) Error() string { return e.err.Error() }

func (e exitErr) Unwrap() error { return e.err }
