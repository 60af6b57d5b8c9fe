// Command tadump instantiates a wasm module and prints regions of its linear
// memory as typed arrays.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/icexin/typedarray"
	"github.com/icexin/typedarray/gowasm"
)

var logger = zap.NewNop()

type options struct {
	kind    string
	offset  uint32
	length  uint32
	memory  string
	config  string
	verbose bool
}

// view is one region to dump.
type view struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Offset uint32 `yaml:"offset"`
	Length uint32 `yaml:"length"`
}

type viewFile struct {
	Views []view `yaml:"views"`
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "tadump [flags] module.wasm",
		Short: "Dump linear memory of a wasm module as typed arrays",
		Long: `tadump instantiates a wasm module without running it, so only data
segments have been applied, and prints each requested view of its exported
memory as a typed array.

A view file lists several regions:

  views:
    - name: header
      kind: u32
      offset: 0
      length: 4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return run(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "Uint8Array", "Element kind (constructor name or tag such as u16, f64)")
	cmd.Flags().Uint32Var(&opts.offset, "offset", 0, "Byte offset of the view")
	cmd.Flags().Uint32VarP(&opts.length, "length", "n", 16, "Number of elements")
	cmd.Flags().StringVar(&opts.memory, "memory", "memory", "Name of the exported memory")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "YAML file listing views")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	return cmd
}

func loadViews(opts *options) ([]view, error) {
	if opts.config == "" {
		return []view{{Name: opts.memory, Kind: opts.kind, Offset: opts.offset, Length: opts.length}}, nil
	}
	data, err := os.ReadFile(opts.config)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg viewFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", opts.config, err)
	}
	if len(cfg.Views) == 0 {
		return nil, fmt.Errorf("config %s has no views", opts.config)
	}
	return cfg.Views, nil
}

func run(ctx context.Context, w io.Writer, path string, opts *options) error {
	views, err := loadViews(opts)
	if err != nil {
		return err
	}
	bin, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return fmt.Errorf("instantiate wasi: %w", err)
	}
	rt := gowasm.NewRuntime(gowasm.WithLogger(logger), gowasm.WithStdout(w))
	defer rt.Close()
	if _, err := rt.Instantiate(ctx, r); err != nil {
		return err
	}

	cm, err := r.CompileModule(ctx, bin)
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}
	defer cm.Close(ctx)

	mod, err := r.InstantiateModule(ctx, cm, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		return fmt.Errorf("instantiate %s: %w", path, err)
	}
	defer mod.Close(ctx)

	mem := mod.ExportedMemory(opts.memory)
	if mem == nil {
		return fmt.Errorf("module %s exports no memory %q", path, opts.memory)
	}
	buf, err := gowasm.MemoryBuffer(mem)
	if err != nil {
		return err
	}
	logger.Debug("memory", zap.String("name", opts.memory), zap.Int("size", buf.ByteLength()))

	for _, v := range views {
		kind, err := typedarray.ParseKind(v.Kind)
		if err != nil {
			return fmt.Errorf("view %s: %w", v.Name, err)
		}
		t, err := typedarray.NewFromBuffer(kind, buf, v.Offset, v.Length)
		if err != nil {
			return fmt.Errorf("view %s: %w", v.Name, err)
		}
		fmt.Fprintf(w, "%s %s offset=%d length=%d byteLength=%d\n", v.Name, t.Kind(), t.ByteOffset(), t.Length(), t.ByteLength())
		fmt.Fprintln(w, t.String())
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
