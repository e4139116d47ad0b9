package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/omixlab/gexpr/internal/infer"
)

// Configuration keys
const (
	keyFactorMode  = "factor.mode"
	keyFactorRatio = "factor.ratio"
	keyRscriptPath = "rscript.path"
	keyAssayKey    = "store.assay-key"
)

// initConfig sets defaults and reads ~/.gexpr.yaml if present.
func initConfig() {
	viper.SetDefault(keyFactorMode, "auto")
	viper.SetDefault(keyFactorRatio, infer.DefaultRatio)
	viper.SetDefault(keyRscriptPath, "Rscript")
	viper.SetDefault(keyAssayKey, "exprs")

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigFile(filepath.Join(home, ".gexpr.yaml"))
	// Missing config file is fine, defaults apply.
	_ = viper.ReadInConfig()
}

func configFactorMode() string  { return viper.GetString(keyFactorMode) }
func configFactorRatio() int   { return viper.GetInt(keyFactorRatio) }
func configRscriptPath() string { return viper.GetString(keyRscriptPath) }
func configAssayKey() string   { return viper.GetString(keyAssayKey) }

func runConfigCommand(args []string) int {
	cmd := newConfigCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gexpr configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.gexpr.yaml.",
		Example: `  gexpr config                       # show all config
  gexpr config set factor.ratio 20   # require 20x rows per distinct value
  gexpr config get rscript.path      # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.gexpr.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".gexpr.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
