package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typograf/typograf/internal/store"
)

// CacheVerifyOptions holds flags for cache verify.
type CacheVerifyOptions struct {
	*RootOptions
	Engine EngineOptions
	Cache  string
}

// VerifyReport is the JSON payload of cache verify.
type VerifyReport struct {
	ConfigHash string           `json:"config_hash"`
	Checked    int              `json:"checked"`
	Mismatches []store.Mismatch `json:"mismatches,omitempty"`
}

// CacheStatsReport is the JSON payload of cache stats.
type CacheStatsReport struct {
	Path      string `json:"path"`
	Documents int64  `json:"documents"`
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and audit the batch result cache",
	}
	cmd.AddCommand(newCacheVerifyCommand(rootOpts))
	cmd.AddCommand(newCacheStatsCommand(rootOpts))
	cmd.AddCommand(newCachePruneCommand(rootOpts))
	return cmd
}

func newCacheVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheVerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-verify cached results against the current rules",
		Long: `Reprocess every cached input under the given configuration and compare
against the stored outputs.

The engine flags must repeat the configuration the cache was written with;
they determine which records are checked. A mismatch means either the
stored input was corrupted or a rule's behavior changed without a
fingerprint change.

Exit codes:
  0 - every record reproduces
  1 - drift detected
  2 - command error (cache not readable)

Examples:
  typograf cache verify --cache results.db --lang ru --mode name
  typograf cache verify --cache results.db --profile ru.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheVerify(opts, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to SQLite result cache (required)")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func runCacheVerify(opts *CacheVerifyOptions, cmd *cobra.Command) error {
	prof, err := opts.Engine.loadProfile()
	if err != nil {
		return WrapExitError(ExitCommandError, "load profile", err)
	}
	eng, err := opts.Engine.buildEngine(prof)
	if err != nil {
		return WrapExitError(ExitCommandError, "configure engine", err)
	}
	configHash, err := eng.Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "fingerprint configuration", err)
	}

	st, err := store.Open(opts.Cache)
	if err != nil {
		return WrapExitError(ExitCommandError, "open cache", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docs, err := st.List(ctx, configHash)
	if err != nil {
		return WrapExitError(ExitCommandError, "list cache", err)
	}
	mismatches, err := st.Verify(ctx, configHash, func(text string) (string, error) {
		return eng.Process(text)
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "verify cache", err)
	}

	report := VerifyReport{
		ConfigHash: configHash,
		Checked:    len(docs),
		Mismatches: mismatches,
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		resp := Response{Status: "ok", Data: report}
		if len(mismatches) > 0 {
			resp.Status = "error"
			resp.Error = &ErrorBody{
				Code:    ErrCodeCacheDrift,
				Message: fmt.Sprintf("%d record(s) do not reproduce", len(mismatches)),
			}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
		if len(mismatches) > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d record(s) do not reproduce", len(mismatches)))
		}
		return nil
	}

	w := cmd.OutOrStdout()
	if len(mismatches) == 0 {
		fmt.Fprintf(w, "✓ cache verified: %d record(s) reproduce\n", len(docs))
		return nil
	}
	fmt.Fprintf(w, "✗ cache drift: %d of %d record(s) do not reproduce\n", len(mismatches), len(docs))
	for _, m := range mismatches {
		fmt.Fprintf(w, "  %s: %s\n", m.Kind, m.InputHash)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d record(s) do not reproduce", len(mismatches)))
}

// CachePruneReport is the JSON payload of cache prune.
type CachePruneReport struct {
	ConfigHash string `json:"config_hash"`
	Pruned     int64  `json:"pruned"`
}

func newCachePruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheVerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop records from other configurations",
		Long: `Delete every cached record whose configuration hash differs from the
one the engine flags produce. Run after changing rules, settings, or a
profile to drop entries no current engine can hit.

Examples:
  typograf cache prune --cache results.db --lang ru
  typograf cache prune --cache results.db --profile ru.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCachePrune(opts, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to SQLite result cache (required)")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func runCachePrune(opts *CacheVerifyOptions, cmd *cobra.Command) error {
	prof, err := opts.Engine.loadProfile()
	if err != nil {
		return WrapExitError(ExitCommandError, "load profile", err)
	}
	eng, err := opts.Engine.buildEngine(prof)
	if err != nil {
		return WrapExitError(ExitCommandError, "configure engine", err)
	}
	configHash, err := eng.Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "fingerprint configuration", err)
	}

	st, err := store.Open(opts.Cache)
	if err != nil {
		return WrapExitError(ExitCommandError, "open cache", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := st.Prune(ctx, configHash)
	if err != nil {
		return WrapExitError(ExitCommandError, "prune cache", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(CachePruneReport{ConfigHash: configHash, Pruned: n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d record(s)\n", n)
	return nil
}

func newCacheStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var cache string

	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show cache size",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cache)
			if err != nil {
				return WrapExitError(ExitCommandError, "open cache", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			n, err := st.Count(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "count documents", err)
			}

			if rootOpts.Format == "json" {
				formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return formatter.Success(CacheStatsReport{Path: cache, Documents: n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d document(s) in %s\n", n, cache)
			return nil
		},
	}

	cmd.Flags().StringVar(&cache, "cache", "", "path to SQLite result cache (required)")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}
