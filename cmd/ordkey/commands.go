package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bsm/ordkey"
	"github.com/bsm/ordkey/index"
	"github.com/bsm/ordkey/store"
	"github.com/bsm/ordkey/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func encodeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [values...]",
		Short: "Encode a tuple",
		Long: "Encode one literal per column and print the key as hex. Fewer values than columns encode a prefix. Use NULL for null values.\n" +
			"Flags must precede the values. A leading value starting with a dash needs a -- separator, e.g. encode -- -1 eu.",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTuple(a.schema, args)
			if err != nil {
				return err
			}

			var key []byte
			if len(t) == a.schema.NumColumns() {
				key, err = a.schema.Encode(t)
			} else {
				key, err = a.schema.EncodePrefix(t)
			}
			if err != nil {
				return err
			}

			a.log.Debug("encoded", zap.Stringer("tuple", t), zap.Int("size", len(key)))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(key))
			return err
		},
	}
	// values such as -1 are not flags
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func decodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("ordkey: invalid hex key: %w", err)
			}

			t, err := a.schema.Decode(key)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t)
			return err
		},
	}
}

func buildCommand(a *app) *cobra.Command {
	var (
		in, out    string
		noCompress bool
		blockSize  int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a table from tab separated input",
		Long: "Build a sorted table. Each input line holds one literal per column, followed by an optional value, " +
			"all separated by tabs. Empty lines and lines starting with # are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("ordkey: --out is required")
			}

			var r io.Reader = cmd.InOrStdin()
			if in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			o := &table.WriterOptions{BlockSize: blockSize}
			if noCompress {
				o.Compression = table.NoCompression
			}
			return a.build(r, out, o)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "-", "input file, - for STDIN")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output table file (required)")
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "disable snappy block compression")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "minimum block size in bytes (default 4KiB)")
	return cmd
}

func (a *app) build(r io.Reader, out string, o *table.WriterOptions) error {
	mem := store.NewMemory(0)
	defer mem.Close()

	idx := index.New(mem, a.schema, nil)
	ncols := a.schema.NumColumns()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < ncols || len(fields) > ncols+1 {
			return fmt.Errorf("ordkey: line %d: expected %d or %d fields, got %d", lineNo, ncols, ncols+1, len(fields))
		}

		t, err := parseTuple(a.schema, fields[:ncols])
		if err != nil {
			return fmt.Errorf("ordkey: line %d: %w", lineNo, err)
		}

		var val []byte
		if len(fields) > ncols {
			val = []byte(fields[ncols])
		}

		if _, err := idx.Get(t); err == nil {
			a.log.Debug("duplicate tuple replaced", zap.Int("line", lineNo), zap.Stringer("tuple", t))
		}
		if err := idx.Put(t, val); err != nil {
			return fmt.Errorf("ordkey: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := store.WriteTable(f, mem, o)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.log.Info("table written",
		zap.String("path", out),
		zap.Int("entries", n),
		zap.Int("lines", lineNo),
	)
	return nil
}

func dumpCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file> [prefix values...]",
		Short: "Print the entries of a table",
		Long: "Print decoded tuples and values of a table, optionally restricted to the entries matching the leading column values.\n" +
			"Flags must precede the file name.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, err := parseTuple(a.schema, args[1:])
			if err != nil {
				return err
			}
			return a.dump(cmd.OutOrStdout(), args[0], prefix)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) dump(w io.Writer, path string, prefix ordkey.Tuple) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	tr, err := table.NewReader(f, fi.Size())
	if err != nil {
		return err
	}
	a.log.Debug("table opened", zap.String("path", path), zap.Int("blocks", tr.NumBlocks()))

	c := index.NewReader(store.NewTable(tr), a.schema, nil).Scan(prefix)
	defer c.Release()

	n := 0
	for c.Next() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", c.Tuple(), c.Value()); err != nil {
			return err
		}
		n++
	}
	if err := c.Err(); err != nil {
		return err
	}

	a.log.Debug("table dumped", zap.String("path", path), zap.Int("entries", n))
	return nil
}
