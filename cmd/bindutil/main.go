// Command bindutil inspects lazily loaded modules and installed package trees.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/st-keller/bindutil"
	"github.com/st-keller/bindutil/pkgpath"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the persistent flags.
type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "bindutil",
		Short:        "Inspect lazily loaded binding modules",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newAttrsCmd(opts), newFindConfigCmd(), newLibDirsCmd())
	return root
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (bindutil.Config, error) {
	cfg, err := bindutil.LoadConfig(o.configPath)
	if err != nil {
		return bindutil.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

func newAttrsCmd(opts *options) *cobra.Command {
	var (
		url    string
		caPath string
	)

	cmd := &cobra.Command{
		Use:   "attrs [module]",
		Short: "List the attributes of a module served by a remote module source",
		Long: `Resolves the module through a lazy proxy backed by the remote module source
and prints its attribute names, one per line.

Example:
  bindutil attrs openvino.runtime --url https://modules.internal:9443`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if url != "" {
				cfg.ModuleURL = url
			}
			if caPath != "" {
				cfg.CAPath = caPath
			}
			if cfg.ModuleURL == "" {
				return fmt.Errorf("no module source: set --url, module_url or %s", bindutil.EnvModuleURL)
			}
			if !slices.Contains(cfg.Modules, args[0]) {
				cfg.Modules = append(cfg.Modules, args[0])
			}

			rt, err := bindutil.NewRuntime(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Sync() }()

			names, err := rt.Lazy(args[0]).Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "base URL of the remote module source")
	cmd.Flags().StringVar(&caPath, "ca", "", "CA bundle used to verify the module source")
	return cmd
}

func newFindConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find-config [root] [file]",
		Short: "Print the directory under root that contains the package config file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := pkgpath.DefaultConfigFile
			if len(args) == 2 {
				filename = args[1]
			}

			dir, err := pkgpath.FindConfigDir(args[0], filename)
			if err != nil {
				return err
			}
			if dir == "" {
				return fmt.Errorf("%s not found under %s", filename, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func newLibDirsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lib-dirs [root]",
		Short: "Print the native library directories of the package at root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, dir := range pkgpath.LibraryDirsFromEnv(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}
