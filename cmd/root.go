// Package cmd provides the root command and CLI setup for knit.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/knit/internal/adapter"
	"github.com/mouse-blink/knit/internal/controller"
	"github.com/mouse-blink/knit/internal/domain"
	m "github.com/mouse-blink/knit/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var bundleStore adapter.BundleStore
var resolver adapter.Resolver
var templates adapter.Templates
var logger *log.Logger
var workflow domain.Workflow
var ui controller.UI

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "knit"})
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	bundleStore = adapter.NewBundleStore()
	resolver = adapter.NewLocalNodeResolver()
	templates = adapter.NewBundleTemplates()
	workflow = domain.NewWorkflow(
		fsAdapter,
		bundleStore,
		resolver,
		templates,
		ui,
		os.Stdout,
		logger,
	)
}

var outputFlags []string
var browserFlag bool
var excludeNodeModulesFlag bool
var excludeFlags []string
var configFlag string
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knit [entry...]",
		Short: "CommonJS module bundler",
		Long:  rootLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyVerbosity()

			outputs, opts, err := bundleConfig(cmd)
			if err != nil {
				return err
			}

			return workflow.Bundle(domain.BundleArgs{
				Entries: parsePaths(args),
				Outputs: outputs,
				Options: opts,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&outputFlags, "output", "o", nil, "output file, repeated per entry; stdout when omitted")
	cmd.PersistentFlags().BoolVarP(&browserFlag, "browser", "b", false, "bundle for a browser target")
	cmd.PersistentFlags().BoolVarP(&excludeNodeModulesFlag, "exclude-node-modules", "n", false, "keep installed packages out of the bundle")
	cmd.PersistentFlags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude a file from the bundle (can be repeated)")
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "TOML config file; flags take precedence")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// bundleConfig layers command line flags over the optional config file.
// Boolean flags win only when set explicitly, exclude lists are combined,
// and an output flag replaces the configured output.
func bundleConfig(cmd *cobra.Command) ([]m.Path, m.Options, error) {
	var fileCfg m.Config

	if configFlag != "" {
		loaded, err := adapter.LoadConfigFile(m.Path(configFlag))
		if err != nil {
			return nil, m.Options{}, err
		}

		fileCfg = loaded
	}

	opts := fileCfg.Options

	if cmd.Flags().Changed("browser") {
		opts.Browser = browserFlag
	}

	if cmd.Flags().Changed("exclude-node-modules") {
		opts.ExcludeNodeModules = excludeNodeModulesFlag
	}

	opts.ExcludeFiles = append(opts.ExcludeFiles, parsePaths(excludeFlags)...)

	outputs := parsePaths(outputFlags)
	if len(outputs) == 0 && fileCfg.Output != "" {
		outputs = []m.Path{fileCfg.Output}
	}

	return outputs, opts, nil
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func applyVerbosity() {
	if verboseFlag {
		logger.SetLevel(log.DebugLevel)
	}
}
