// Command typequote is a small debug tool for the descriptor algebra: it
// builds a handful of fixed demonstration types, including a recursive list,
// and prints their quoted form plus a few subtype/emptiness checks. It is the
// "print what the engine thinks a type looks like" counterpart to ile's own
// build/run subcommands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hollow-lang/settype/internal/log"
	"github.com/hollow-lang/settype/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var logLevel *int

var rootCmd = &cobra.Command{
	Use:          "typequote",
	Short:        "quote and compare a handful of fixed demonstration types",
	RunE:         runQuote,
	SilenceUsage: true,
}

func init() {
	logLevel = rootCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runQuote(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	fmt.Println("-- basic kinds --")
	quoteLine("integer", types.Integer())
	quoteLine("atom(:ok)", types.AtomSet("ok"))
	quoteLine("boolean", types.Boolean())
	quoteLine("dynamic", types.Dynamic())

	fmt.Println("\n-- maps --")
	point := types.Map(types.Closed, types.F("x", types.Integer()), types.F("y", types.Integer()))
	quoteLine("point", point)

	withTag := types.Map(types.Open,
		types.F("x", types.Integer()),
		types.Opt("tag", types.Atom()),
	)
	quoteLine("open point with optional tag", withTag)

	fmt.Println("\n-- recursive list --")
	nodes := types.BuildRecursive(map[string]func(map[string]*types.Node) *types.Descriptor{
		"List": func(vars map[string]*types.Node) *types.Descriptor {
			return types.Union(
				types.Map(types.Closed,
					types.F("head", types.Integer()),
					types.F("tail", vars["List"]),
				),
				types.AtomSet("nil"),
			)
		},
	})
	list := nodes["List"]
	fmt.Printf("List = %s\n", types.ToQuotedString(list.Step()))
	fmt.Printf("empty?(List) = %v\n", types.EmptyNode(list))
	fmt.Printf("nil <: List = %v\n", types.SubtypeNode(types.FreshNode(types.AtomSet("nil")), list))

	fmt.Println("\n-- subtype checks --")
	fmt.Printf("point <: (open point with optional tag) = %v\n", types.Subtype(point, withTag))
	fmt.Printf("integer <: float = %v\n", types.Subtype(types.Integer(), types.Float()))
	fmt.Printf("dynamic compatible with integer = %v\n", types.Compatible(types.Dynamic(), types.Integer()))

	return nil
}

func quoteLine(name string, t *types.Descriptor) {
	fmt.Printf("%s = %s\n", name, types.ToQuotedString(t))
}
