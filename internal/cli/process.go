package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/typograf/typograf"
	"github.com/typograf/typograf/internal/profile"
	"github.com/typograf/typograf/internal/store"
)

// ProcessOptions holds flags for the process command.
type ProcessOptions struct {
	*RootOptions
	Engine  EngineOptions
	Write   bool
	Output  string
	Cache   string
	Workers int
}

// FileResult is one processed input.
type FileResult struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Cached bool   `json:"cached,omitempty"`
}

// ProcessReport is the JSON payload of the process command.
type ProcessReport struct {
	Files []FileResult `json:"files"`
}

// NewProcessCommand creates the process command.
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcessOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "process [file...]",
		Short: "Run text through the typographic pipeline",
		Long: `Process text files, or stdin when no files are given (or "-" is).

Rules are configured with --lang/--mode/--enable/--disable or a CUE
profile. With --cache, results are stored keyed by input and configuration
hashes, and unchanged inputs are served from the cache without
reprocessing.

Exit codes:
  0 - all inputs processed
  1 - processing failed
  2 - command error (unreadable input, bad flags)

Examples:
  echo 'Снег - это "вода"...' | typograf process --lang ru
  typograf process --lang ru --mode name --write docs/*.txt
  typograf process --profile ru.cue --cache results.db --workers 4 docs/*.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(opts, args, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	cmd.Flags().BoolVar(&opts.Write, "write", false, "rewrite input files in place")
	cmd.Flags().StringVar(&opts.Output, "output", "", "write to file instead of stdout (single input only)")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to SQLite result cache")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "parallel workers for multi-file batches (one engine per worker)")

	return cmd
}

func runProcess(opts *ProcessOptions, args []string, cmd *cobra.Command) error {
	stdin := len(args) == 0 || (len(args) == 1 && args[0] == "-")
	switch {
	case opts.Workers < 1:
		return NewExitError(ExitCommandError, "workers must be at least 1")
	case opts.Write && stdin:
		return NewExitError(ExitCommandError, "--write needs file arguments")
	case opts.Write && opts.Output != "":
		return NewExitError(ExitCommandError, "--write and --output are mutually exclusive")
	case opts.Output != "" && len(args) > 1:
		return NewExitError(ExitCommandError, "--output works with a single input")
	}

	prof, err := opts.Engine.loadProfile()
	if err != nil {
		return WrapExitError(ExitCommandError, "load profile", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var st *store.Store
	var configHash string
	if opts.Cache != "" {
		// The fingerprint comes from a prototype engine; every worker
		// builds an equal one, so they share the cache key.
		eng, err := opts.Engine.buildEngine(prof)
		if err != nil {
			return WrapExitError(ExitCommandError, "configure engine", err)
		}
		configHash, err = eng.Fingerprint()
		if err != nil {
			return WrapExitError(ExitCommandError, "fingerprint configuration", err)
		}
		st, err = store.Open(opts.Cache)
		if err != nil {
			return WrapExitError(ExitCommandError, "open cache", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("closing cache", "error", closeErr)
			}
		}()
		slog.Debug("cache ready", "path", opts.Cache, "config_hash", configHash)
	}

	var results []FileResult
	if stdin {
		results, err = processStdin(ctx, opts, prof, st, configHash, cmd)
	} else {
		results, err = processFiles(ctx, opts, prof, st, configHash, args)
	}
	if err != nil {
		return err
	}

	return writeResults(opts, results, cmd)
}

func processStdin(ctx context.Context, opts *ProcessOptions, prof *profile.Profile, st *store.Store, configHash string, cmd *cobra.Command) ([]FileResult, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read stdin", err)
	}
	w, err := newWorker(opts, prof, st, configHash)
	if err != nil {
		return nil, err
	}
	res, err := w.process(ctx, "-", string(data), 0)
	if err != nil {
		return nil, err
	}
	return []FileResult{res}, nil
}

// processFiles fans paths out over a bounded worker pool. Each worker owns
// its own engine; results land in an index-addressed slice so output order
// matches argument order regardless of scheduling.
func processFiles(ctx context.Context, opts *ProcessOptions, prof *profile.Profile, st *store.Store, configHash string, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range min(opts.Workers, len(paths)) {
		g.Go(func() error {
			w, err := newWorker(opts, prof, st, configHash)
			if err != nil {
				return err
			}
			for idx := range jobs {
				data, err := os.ReadFile(paths[idx])
				if err != nil {
					return WrapExitError(ExitCommandError, "read input", err)
				}
				res, err := w.process(ctx, paths[idx], string(data), int64(idx))
				if err != nil {
					return err
				}
				results[idx] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// worker pairs one engine with the shared cache. A worker is used by a
// single goroutine; lastToken needs no locking because Process runs
// serially within it.
type worker struct {
	eng        *typograf.Engine
	st         *store.Store
	configHash string
	lastToken  string
}

func newWorker(opts *ProcessOptions, prof *profile.Profile, st *store.Store, configHash string) (*worker, error) {
	w := &worker{st: st, configHash: configHash}
	eng, err := opts.Engine.buildEngine(prof, typograf.WithHook(typograf.Hook{
		Before: func(ev typograf.RuleEvent) { w.lastToken = ev.RunToken },
	}))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure engine", err)
	}
	w.eng = eng
	return w, nil
}

// process runs one input through the pipeline, consulting the cache first
// and recording the result on a miss.
func (w *worker) process(ctx context.Context, path, text string, seq int64) (FileResult, error) {
	if w.st != nil {
		hash := store.InputHash(text)
		doc, ok, err := w.st.Get(ctx, hash, w.configHash)
		if err != nil {
			return FileResult{}, WrapExitError(ExitCommandError, "read cache", err)
		}
		if ok {
			slog.Debug("cache hit", "path", path, "input_hash", hash)
			return FileResult{Path: path, Output: doc.Output, Cached: true}, nil
		}
	}

	w.lastToken = ""
	out, err := w.eng.Process(text)
	if err != nil {
		return FileResult{}, WrapExitError(ExitFailure, fmt.Sprintf("process %s", path), err)
	}

	if w.st != nil {
		if _, err := w.st.Put(ctx, store.Document{
			InputHash:  store.InputHash(text),
			ConfigHash: w.configHash,
			RunToken:   w.lastToken,
			Input:      text,
			Output:     out,
			Seq:        seq,
		}); err != nil {
			return FileResult{}, WrapExitError(ExitCommandError, "write cache", err)
		}
	}
	return FileResult{Path: path, Output: out}, nil
}

func writeResults(opts *ProcessOptions, results []FileResult, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Write {
		for _, res := range results {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(res.Path); err == nil {
				mode = info.Mode().Perm()
			}
			if err := os.WriteFile(res.Path, []byte(res.Output), mode); err != nil {
				return WrapExitError(ExitCommandError, "write output", err)
			}
		}
		if opts.Format == "json" {
			return formatter.Success(ProcessReport{Files: results})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d file(s)\n", len(results))
		return nil
	}

	if opts.Format == "json" {
		return formatter.Success(ProcessReport{Files: results})
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" && opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		w = f
	}
	for _, res := range results {
		if _, err := io.WriteString(w, res.Output); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
	}
	return nil
}
