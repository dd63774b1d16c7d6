package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sheetscrub/sheetscrub/internal/config"
	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/log"
	"github.com/sheetscrub/sheetscrub/internal/output"
	"github.com/sheetscrub/sheetscrub/internal/prompt"
	"github.com/sheetscrub/sheetscrub/internal/sanitize"
	"github.com/sheetscrub/sheetscrub/internal/styles"
)

// newRootCmd builds the sheetscrub command tree. A fresh tree per call keeps
// flag state out of package scope so tests can run commands in isolation.
func newRootCmd() *cobra.Command {
	var (
		verbose     bool
		quiet       bool
		remMacros   bool
		remHidden   bool
		overwrite   bool
		interactive bool
	)

	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "sheetscrub <input> <output>",
		Short: "Strip macros and hidden sheets from spreadsheet files",
		Long: `sheetscrub sanitizes spreadsheet files by removing embedded macro code
and hidden sheet definitions while leaving every other byte of the
container untouched.

Supported formats:
  .xlsx/.xlsm  remove VBA macros and/or hidden sheets
  .ods         remove hidden tables (macro removal not supported)
  .csv         drop rows with missing fields

Examples:
  sheetscrub --remove-macros book.xlsm clean.xlsm
  sheetscrub --remove-hidden-sheets report.xlsx clean.xlsx
  sheetscrub --remove-hidden-sheets data.ods clean.ods
  sheetscrub records.csv clean.csv`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			cfg = loaded

			flags := cmd.Flags()
			if !flags.Changed("verbose") {
				verbose = cfg.Log.Verbose
			}
			if !flags.Changed("quiet") {
				quiet = cfg.Log.Quiet
			}
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			logger := log.New(os.Stderr, verbose, quiet).WithColor(styles.Colored(os.Stderr))
			cmd.SetContext(log.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input, dest := args[0], args[1]

			// Config provides defaults; explicit flags win either way.
			opts := format.Options{
				RemoveMacros:       cfg.Defaults.RemoveMacros,
				RemoveHiddenSheets: cfg.Defaults.RemoveHiddenSheets,
				Overwrite:          cfg.Defaults.Overwrite,
			}
			flags := cmd.Flags()
			if flags.Changed("remove-macros") {
				opts.RemoveMacros = remMacros
			}
			if flags.Changed("remove-hidden-sheets") {
				opts.RemoveHiddenSheets = remHidden
			}
			if flags.Changed("overwrite") {
				opts.Overwrite = overwrite
			}

			if interactive && !opts.Overwrite {
				if _, err := os.Lstat(dest); err == nil {
					res, err := prompt.Confirm(fmt.Sprintf("Output %s exists. Overwrite?", dest))
					if err != nil {
						return err
					}
					// Declining leaves opts.Overwrite unset and the
					// pipeline fails the existence check as usual.
					if res.Confirmed {
						opts.Overwrite = true
					}
				}
			}

			sum, err := sanitize.Run(ctx, input, dest, opts)
			if err != nil {
				return err
			}

			out := output.FromContext(ctx)
			out.Printf("wrote %s: %s\n", dest, sum.Report())
			return nil
		},
	}

	cmd.Flags().BoolVar(&remMacros, "remove-macros", false, "Remove VBA macros (xlsx only)")
	cmd.Flags().BoolVar(&remHidden, "remove-hidden-sheets", false, "Remove hidden sheets (xlsx and ods)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the output file if it exists")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask before overwriting an existing output file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show per-entry processing detail")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all diagnostics below error severity")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(newFormatsCmd())

	return cmd
}

// Execute runs the root command and maps any failure to exit code 1.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := log.New(os.Stderr, false, false).WithColor(styles.Colored(os.Stderr))
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
