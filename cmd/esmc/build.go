package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/esmd/esm-compiler/internal/output"
	"github.com/esmd/esm-compiler/pkg/api"
)

type buildFlags struct {
	jsxFactory         string
	jsxFragmentFactory string
	sourceMap          bool
	dev                bool
	bundleMode         bool
	importMapPath      string
	outDir             string
}

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "Compile modules to plain JavaScript",
		Long: `Compile one or more JavaScript, TypeScript, or JSX modules.

Each file is compiled independently. With --outdir the output is written
next to the input's relative path under that directory, with the extension
replaced by .js (and .js.map when --source-map is set); otherwise a single
input is printed to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.jsxFactory, "jsx-factory", "", `JSX factory function (default "React.createElement")`)
	cmd.Flags().StringVar(&flags.jsxFragmentFactory, "jsx-fragment-factory", "", `JSX fragment factory (default "React.Fragment")`)
	cmd.Flags().BoolVar(&flags.sourceMap, "source-map", false, "emit a source map alongside the output")
	cmd.Flags().BoolVar(&flags.dev, "dev", false, "instrument local components for hot reloading")
	cmd.Flags().BoolVar(&flags.bundleMode, "bundle-mode", false, "mark the dependency list for bundling")
	cmd.Flags().StringVar(&flags.importMapPath, "import-map", "", "path to an import map JSON file")
	cmd.Flags().StringVarP(&flags.outDir, "outdir", "o", "", "directory to write compiled files into")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, flags buildFlags) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	opts, err := transformOptions(cfg, flags)
	if err != nil {
		return err
	}
	if len(args) > 1 && flags.outDir == "" {
		return fmt.Errorf("building %d files requires --outdir", len(args))
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, name := range args {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return buildOne(cmd, name, opts, flags)
		})
	}
	return g.Wait()
}

// buildOne compiles a single file. Options are copied per call so each file
// gets its own specifier and dependency list.
func buildOne(cmd *cobra.Command, name string, opts api.TransformOptions, flags buildFlags) error {
	source, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	opts.Specifier = filepath.ToSlash(name)
	result, err := api.Transform(string(source), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	for _, dep := range result.Deps {
		output.Debug("dependency", "module", name, "specifier", dep.Specifier, "kind", dep.Kind)
	}

	if flags.outDir == "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Code)
		if result.SourceMap != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.SourceMap)
		}
		return nil
	}

	outPath := filepath.Join(flags.outDir, withJSExt(name))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(result.Code), 0o644); err != nil {
		return err
	}
	if result.SourceMap != "" {
		if err := os.WriteFile(outPath+".map", []byte(result.SourceMap), 0o644); err != nil {
			return err
		}
	}
	output.Info("built", "in", name, "out", outPath)
	return nil
}

// transformOptions merges config-file defaults with command-line flags.
// Flags win when set.
func transformOptions(cfg *fileConfig, flags buildFlags) (api.TransformOptions, error) {
	opts := api.TransformOptions{
		JSXFactory:         cfg.JSXFactory,
		JSXFragmentFactory: cfg.JSXFragmentFactory,
		SourceMap:          cfg.SourceMap || flags.sourceMap,
		Dev:                cfg.Dev || flags.dev,
		BundleMode:         flags.bundleMode,
	}
	if flags.jsxFactory != "" {
		opts.JSXFactory = flags.jsxFactory
	}
	if flags.jsxFragmentFactory != "" {
		opts.JSXFragmentFactory = flags.jsxFragmentFactory
	}

	importMapPath := flags.importMapPath
	if importMapPath == "" {
		importMapPath = cfg.ImportMap
	}
	if importMapPath != "" {
		importMap, err := readImportMap(importMapPath)
		if err != nil {
			return api.TransformOptions{}, err
		}
		opts.ImportMap = importMap
	}
	return opts, nil
}

func withJSExt(name string) string {
	ext := filepath.Ext(name)
	if ext == ".js" {
		return name
	}
	return strings.TrimSuffix(name, ext) + ".js"
}
