package firmhook

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	cblog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/embedfoundry/firmhook/cmd/firmhook/version"
	"github.com/embedfoundry/firmhook/config"
	"github.com/embedfoundry/firmhook/internal/prettylog"
	"github.com/embedfoundry/firmhook/pkg/buildenv"
	"github.com/embedfoundry/firmhook/pkg/flagtree"
	"github.com/embedfoundry/firmhook/pkg/hook"
	"github.com/embedfoundry/firmhook/ui"
)

const (
	shortDescription = "firmhook runs the pre/post build hooks of an embedded-firmware " +
		"pipeline: a diagnostic report before compilation, and versioned artifact " +
		"distribution with a fingerprint trailer after it."
)

// rootOptions holds flag values shared by both hooks.
type rootOptions struct {
	debug       bool
	verbose     bool
	envFile     string
	definesFile string
}

// NewRootCmd builds the firmhook command tree.
func NewRootCmd(ctx context.Context) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "firmhook",
		Short: shortDescription,
		Example: `	# Print the pre-build diagnostic report
	firmhook pre

	# Copy and fingerprint the compiled artifact
	firmhook post --target .build/firmware.bin

	# Wait up to a minute for a late artifact
	firmhook post --target .build/firmware.bin --wait 1m`,
		Version:       version.OverallVersionStringColorized(ctx),
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "turn on debug messages")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show verbose output when running hooks")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file merged into the build environment")
	rootCmd.PersistentFlags().StringVar(&opts.definesFile, "defines-file", "", "YAML file holding the defines tree instead of parsing BUILD_FLAGS")

	rootCmd.AddCommand(newPreCmd(opts))
	rootCmd.AddCommand(newPostCmd(opts))

	return rootCmd
}

// hookContext is everything a hook needs, constructed once at entry.
type hookContext struct {
	cfg     *config.Config
	env     *buildenv.Env
	defines *flagtree.Node
	color   bool
}

// setup loads configuration, installs logging, and snapshots the build
// environment for a hook invocation.
func setup(cmd *cobra.Command, opts *rootOptions) (*hookContext, error) {
	cfg, err := config.Load(&config.LoadOptions{Stderr: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}

	if opts.debug {
		cfg.Debug = true
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.envFile != "" {
		cfg.EnvFile = opts.envFile
	}

	logHandler := prettylog.SetupPrettyLogger(cmd.ErrOrStderr())
	switch {
	case cfg.Debug:
		logHandler.SetLevel(cblog.DebugLevel)
	case cfg.Verbose:
		logHandler.SetLevel(cblog.InfoLevel)
	default:
		logHandler.SetLevel(cblog.WarnLevel)
	}

	env, err := buildenv.Load(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	// nil defines means the hooks parse BUILD_FLAGS themselves.
	var defines *flagtree.Node
	if opts.definesFile != "" {
		data, err := os.ReadFile(opts.definesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read defines file: %w", err)
		}
		defines, err = flagtree.FromYAML(data)
		if err != nil {
			return nil, err
		}
	}

	return &hookContext{
		cfg:     cfg,
		env:     env,
		defines: defines,
		color:   cfg.EnableColor && ui.ColorEnabled(),
	}, nil
}

func newPreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pre",
		Short: "Print the pre-build diagnostic report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hctx, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			hook.Pre(hook.PreParams{
				Env:         hctx.env,
				Defines:     hctx.defines,
				Stdout:      cmd.OutOrStdout(),
				EnableColor: hctx.color,
			})
			return nil
		},
	}
}

func newPostCmd(opts *rootOptions) *cobra.Command {
	var (
		target    string
		outputDir string
		wait      time.Duration
	)

	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Copy the compiled artifact to the versioned output directory and fingerprint it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hctx, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = hctx.cfg.OutputDir
			}

			return hook.Post(hook.PostParams{
				Env:           hctx.env,
				Defines:       hctx.defines,
				Target:        target,
				OutputDir:     outputDir,
				ExtraPatterns: hctx.cfg.ExtraArtifacts,
				WaitTimeout:   wait,
				Stdout:        cmd.OutOrStdout(),
				EnableColor:   hctx.color,
			})
		},
	}

	postCmd.Flags().StringVar(&target, "target", "", "path of the compiled binary artifact")
	postCmd.Flags().StringVar(&outputDir, "output-dir", "", "override the configured output directory name")
	postCmd.Flags().DurationVar(&wait, "wait", 0, "wait this long for the artifact to appear (e.g. 30s)")

	if err := postCmd.MarkFlagRequired("target"); err != nil {
		panic(fmt.Errorf("failed to mark --target as required: %w", err))
	}

	return postCmd
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
// It accepts a context and a root Cobra command as input parameters.
// Returns an error if the command execution fails.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}
