package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/dutrace/internal/config"
	"github.com/idelchi/dutrace/internal/dirstat"
	"github.com/idelchi/dutrace/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// DefaultExcludes contains the default exclusion patterns for trace discovery.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{`.*\.git/.*`, `.*node_modules/.*`}

// Options holds the analysis options plus the settings only the command line knows about.
type Options struct {
	dirstat.Options

	// Output represents output format (table or json).
	Output string
	// Config is the path of the YAML configuration file.
	Config string
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// sizeFlags holds the size flags as given, before unit parsing.
type sizeFlags struct {
	threshold string
	capacity  string
	goal      string
	minSize   string
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var (
		options Options
		sizes   sizeFlags
	)

	cmd := &cobra.Command{
		Use:   "dutrace [flags] [path]",
		Short: "Reconstruct directory sizes from a recorded cd/ls trace",
		Long: heredoc.Doc(`
			dutrace rebuilds a filesystem's directory sizes from a recorded terminal
			session of 'cd' and 'ls' commands and answers two questions about it:

			  - the total size of all directories smaller than --threshold
			  - the smallest directory whose deletion leaves --goal bytes free
			    on a disk of --capacity bytes

			Positional Arguments:
			  path                   Trace file, directory of trace files, or '-' for standard input.
			                         Defaults to standard input if not specified.

			Sizes accept units (e.g. 100000, 100kB, 30MiB).

			Settings not given as flags are read from DUTRACE_* environment variables
			(a .env file is loaded if present) and then from the --config file.

			The '-i' flag outputs a zsh snippet that records cd and ls into a trace log.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args, options, sizes)
		},
	}

	cmd.Flags().SortFlags = false
	bindFlags(cmd.Flags(), &options, &sizes)

	return cmd
}

func bindFlags(flags *pflag.FlagSet, options *Options, sizes *sizeFlags) {
	flags.StringVarP(&sizes.threshold, "threshold", "t",
		strconv.Itoa(dirstat.DefaultThreshold), "Sum all directories smaller than this size")
	flags.StringVar(&sizes.capacity, "capacity",
		strconv.Itoa(dirstat.DefaultCapacity), "Total disk capacity")
	flags.StringVar(&sizes.goal, "goal",
		strconv.Itoa(dirstat.DefaultGoal), "Free space required after deleting one directory")
	flags.IntVarP(&options.TopN, "top", "n", dirstat.DefaultTopN, "Number of largest directories to display")
	flags.StringVar(&sizes.minSize, "min-size", "0B", "Minimum directory size to display (e.g., 1KB)")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: json or table")
	flags.StringSliceVarP(
		&options.Extensions,
		"ext",
		"x",
		[]string{},
		"Trace file suffixes to include when path is a directory (e.g., .log,.txt). Use '!' prefix to exclude",
	)
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", DefaultExcludes, "Regex patterns to exclude")
	flags.IntVarP(&options.Depth, "depth", "d", 0, "Maximum discovery depth (0=unlimited)")
	flags.StringVar(&options.Config, "config", config.FileName, "Configuration file")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")
}

func (c CLI) run(cmd *cobra.Command, args []string, options Options, sizes sizeFlags) error {
	out := cmd.OutOrStdout()

	if options.Version {
		fmt.Fprintln(out, c.version)

		return nil
	}

	if options.Integration {
		rendered, err := integration.Render()
		if err != nil {
			return fmt.Errorf("rendering integration script: %w", err)
		}

		fmt.Fprintln(out, rendered)

		return nil
	}

	if err := resolveConfig(cmd.Flags(), &options, &sizes); err != nil {
		return err
	}

	allowedOutputs := []string{"table", "json"}

	if !slices.Contains(allowedOutputs, options.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
	}

	if options.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	if options.TopN <= 0 {
		return errors.New("top must be positive")
	}

	if len(args) == 0 {
		options.Path = dirstat.Stdin
	} else {
		options.Path = args[0]
	}

	options.Stdin = cmd.InOrStdin()

	for _, size := range []struct {
		name  string
		value string
		dst   *uint64
	}{
		{"threshold", sizes.threshold, &options.Threshold},
		{"capacity", sizes.capacity, &options.Capacity},
		{"goal", sizes.goal, &options.Goal},
		{"min-size", sizes.minSize, &options.MinSize},
	} {
		parsed, err := humanize.ParseBytes(size.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", size.name, err)
		}

		*size.dst = parsed
	}

	return logic(cmd.Context(), options, out)
}

// resolveConfig fills every flag the user did not set from the environment
// and then the config file.
func resolveConfig(flags *pflag.FlagSet, options *Options, sizes *sizeFlags) error {
	config.LoadDotEnv()

	cfg, err := config.Load(options.Config)

	switch {
	case errors.Is(err, config.ErrConfigNotFound) && !flags.Changed("config"):
		cfg = &config.Config{}
	case err != nil:
		return fmt.Errorf("loading config %q: %w", options.Config, err)
	}

	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return err
	}

	set := func(name string, dst *string, value string) {
		if value != "" && !flags.Changed(name) {
			*dst = value
		}
	}

	set("threshold", &sizes.threshold, cfg.Threshold)
	set("capacity", &sizes.capacity, cfg.Capacity)
	set("goal", &sizes.goal, cfg.Goal)
	set("min-size", &sizes.minSize, cfg.MinSize)
	set("output", &options.Output, cfg.Output)

	if cfg.Top != 0 && !flags.Changed("top") {
		options.TopN = cfg.Top
	}

	return nil
}
