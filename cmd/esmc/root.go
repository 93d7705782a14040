package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/esmd/esm-compiler/internal/output"
	"github.com/esmd/esm-compiler/pkg/api"
)

var (
	// Global flags
	flagConfig  string
	flagVerbose bool
)

// rootCmd is the base command for the esmc CLI.
var rootCmd = &cobra.Command{
	Use:   "esmc",
	Short: "Module compiler for JavaScript and TypeScript",
	Long: `esmc transpiles individual JavaScript, TypeScript, and JSX modules
into plain JavaScript for a module-serving backend.

It provides commands to:
  - Build modules, resolving imports through an import map
  - List the names a module exports`,
	PersistentPreRunE: initializeGlobals,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (env: ESMC_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "increase output verbosity")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newExportsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initializeGlobals sets up logging and config based on global flags.
func initializeGlobals(cmd *cobra.Command, _ []string) error {
	output.SetupLogging(flagVerbose)
	return nil
}

// fileConfig holds the settings an esmc.yaml file may carry. Flags given on
// the command line take precedence over it.
type fileConfig struct {
	JSXFactory         string `mapstructure:"jsxFactory"`
	JSXFragmentFactory string `mapstructure:"jsxFragmentFactory"`
	Dev                bool   `mapstructure:"dev"`
	SourceMap          bool   `mapstructure:"sourceMap"`
	ImportMap          string `mapstructure:"importMap"`
}

// loadFileConfig reads esmc.yaml from the --config path, the ESMC_CONFIG
// environment variable, or the working directory. A missing file is not an
// error; environment variables override file values.
func loadFileConfig() (*fileConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("ESMC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := flagConfig
	if configFile == "" {
		configFile = os.Getenv("ESMC_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("esmc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// No esmc.yaml at all is fine unless one was named explicitly.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || (!errors.As(err, &notFound) && !os.IsNotExist(err)) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg fileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// readImportMap loads and parses the import map file named by path.
func readImportMap(path string) (api.ImportMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.ImportMap{}, fmt.Errorf("reading import map: %w", err)
	}
	importMap, err := api.ParseImportMap(data)
	if err != nil {
		return api.ImportMap{}, fmt.Errorf("parsing import map %q: %w", path, err)
	}
	return importMap, nil
}
