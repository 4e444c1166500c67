// Command npiregress runs intervention scenarios and reports the daily and cumulative
// regressions side by side.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/npi-lab/go-npiregress"
	"github.com/npi-lab/go-npiregress/config"
	"github.com/spf13/cobra"
)

type outputFlags struct {
	jsonDir  string
	plotDir  string
	parallel int
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "npiregress",
		Short:        "Compare intervention effects recovered from daily and cumulative cases",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(), newDemoCmd(), newConfigCmd())
	return root
}

func addOutputFlags(cmd *cobra.Command, out *outputFlags) {
	cmd.Flags().StringVar(&out.jsonDir, "json-dir", "", "write each scenario's results as <name>.json into this directory")
	cmd.Flags().StringVar(&out.plotDir, "plot-dir", "", "write each scenario's plots as <name>.html into this directory")
	cmd.Flags().IntVarP(&out.parallel, "parallel", "p", 0, "maximum scenarios run concurrently, 0 for no limit")
}

func newRunCmd() *cobra.Command {
	var (
		path string
		out  outputFlags
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenarios defined in a YAML config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(path)
			if err != nil {
				return err
			}
			opts, err := f.Options()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts, out)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "scenario config file")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
	addOutputFlags(cmd, &out)
	return cmd
}

func newDemoCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the three built in demonstration scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), npiregress.DemoScenarios(), out)
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the demonstration scenarios as a YAML config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.FromOptions(npiregress.DemoScenarios()).Write(cmd.OutOrStdout())
		},
	}
}

// outputNames returns the file name stem of every scenario. Unnamed scenarios are numbered by
// position.
func outputNames(opts []*npiregress.Options) ([]string, error) {
	names := make([]string, len(opts))
	seen := make(map[string]int, len(opts))
	for i, opt := range opts {
		name := opt.Name
		if name == "" {
			name = "scenario" + strconv.Itoa(i+1)
		}
		if err := config.ValidName(name); err != nil {
			return nil, err
		}
		if j, exists := seen[name]; exists {
			return nil, fmt.Errorf("scenarios %d and %d both write %q, %w", j+1, i+1, name, config.ErrDuplicateName)
		}
		seen[name] = i
		names[i] = name
	}
	return names, nil
}

func run(ctx context.Context, w io.Writer, opts []*npiregress.Options, out outputFlags) error {
	names, err := outputNames(opts)
	if err != nil {
		return err
	}
	results, err := npiregress.RunAll(ctx, opts, out.parallel)
	if err != nil {
		return err
	}

	for i, res := range results {
		if err := res.TablePrint(w, "", "  "); err != nil {
			return err
		}
		if div, err := res.Divergence(); err == nil {
			for _, iv := range res.Interventions {
				if _, err := fmt.Fprintf(w, "  Divergence %s: %+.5f\n", iv.Name(), div[iv.Name()]); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		name := names[i]
		if out.jsonDir != "" {
			if err := writeFile(filepath.Join(out.jsonDir, name+".json"), res.WriteJSON); err != nil {
				return err
			}
		}
		if out.plotDir != "" {
			if err := writeFile(filepath.Join(out.plotDir, name+".html"), res.Plot); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	slog.Debug("wrote output", "path", path)
	return file.Close()
}
