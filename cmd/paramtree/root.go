// File: lixenwraith/paramtree/cmd/paramtree/root.go
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lixenwraith/paramtree"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const appName = "paramtree"

var rootCmd = &cobra.Command{
	Use:   "paramtree [options] [inputs...]",
	Short: "Demonstrate a typed parameter tree",
	Long: `paramtree declares a sample parameter tree, fills it from a configuration
file, the environment and the command line, and prints the result.

Example:
  paramtree --distance 2.5
  paramtree --config demo.toml --server-port 9090 a.txt b.txt
  PARAMTREE_LEVEL=5 paramtree --distance 1 --verbose`,
	// Options are derived from the tree and scanned by the binder, after the
	// file and environment have been applied.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(args)
	},
}

func init() {
	rootCmd.AddCommand(newSchemaCmd())
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoBuilder declares the sample tree.
func demoBuilder() *paramtree.Builder {
	return paramtree.NewBuilder().
		DeclareLeaf("config", "configuration file", paramtree.Empty[paramtree.FilePath](), paramtree.Shortcut('c')).
		DeclareLeaf("verbose", "print every leaf after loading", paramtree.Default(false), paramtree.Shortcut('v')).
		DeclareLeaf("level", "verbosity level", paramtree.Default(3), paramtree.Shortcut('l')).
		DeclareLeaf("distance", "distance to travel", paramtree.Empty[float64](), paramtree.Required()).
		DeclareList("tags", "free-form tags", paramtree.DefaultList("demo")).
		DeclareList("inputs", "input files", paramtree.EmptyList[paramtree.FilePath](), paramtree.Positional()).
		BeginSection("server", "listener settings").
		DeclareLeaf("host", "bind address", paramtree.Default("localhost")).
		DeclareLeaf("port", "TCP port", paramtree.Default[uint16](8080), paramtree.Shortcut('p')).
		EndSection("server").
		BeginStructList("upstreams", "backend servers").
		DeclareLeaf("url", "backend URL", paramtree.Empty[string](), paramtree.Required()).
		DeclareLeaf("weight", "load balancing weight", paramtree.Default[uint8](1)).
		EndSection("upstreams")
}

func runDemo(args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tree, err := demoBuilder().Finalize()
	if err != nil {
		return err
	}

	file := paramtree.DiscoverFile(paramtree.DefaultDiscoveryOptions(appName), args)
	if file != "" {
		logger.Info("Using config file.", "path", file)
	}

	opts := paramtree.DefaultLoadOptions()
	opts.EnvPrefix = "PARAMTREE_"
	opts.Logger = logger
	loader := paramtree.NewLoader(tree, opts)

	// List items from the file must exist before their options are derived.
	if file != "" {
		if err := loader.LoadFile(file); err != nil && !errors.Is(err, paramtree.ErrConfigNotFound) {
			return fail(err, tree, nil)
		}
	}

	binder, err := paramtree.NewBinder(tree, paramtree.WithProgramName(appName), paramtree.WithLogger(logger))
	if err != nil {
		return err
	}

	if err := loader.Load("", binder, args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Print(binder.Usage())
			return nil
		}
		return fail(err, tree, binder)
	}

	verbose, _ := paramtree.ValueAt[bool](tree, "verbose")
	if verbose {
		fmt.Print(tree.Debug())
	}
	return tree.Dump()
}

// fail prints the error followed by the usage text and returns the error for
// a non-zero exit.
func fail(err error, tree *paramtree.Tree, binder *paramtree.Binder) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
	if binder != nil {
		fmt.Fprint(os.Stderr, binder.Usage())
	} else {
		_ = tree.WriteUsage(os.Stderr)
	}
	return err
}
