// Command ordkey encodes, decodes and builds tables of order-preserving
// composite keys.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bsm/ordkey"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

var errNoSchema = errors.New("ordkey: --schema is required")

type app struct {
	schemaPath string
	verbose    bool

	log    *zap.Logger
	schema *ordkey.Schema
}

func newRootCommand() *cobra.Command {
	a := new(app)

	cmd := &cobra.Command{
		Use:           "ordkey",
		Short:         "Order-preserving composite key tool",
		Long:          "Encode and decode composite keys and build sorted tables from tab separated input",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&a.schemaPath, "schema", "s", "", "schema YAML file (required)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		encodeCommand(a),
		decodeCommand(a),
		buildCommand(a),
		dumpCommand(a),
	)
	return cmd
}

func (a *app) setup() error {
	var err error
	if a.verbose {
		a.log, err = zap.NewDevelopment()
	} else {
		a.log, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	if a.schemaPath == "" {
		return errNoSchema
	}
	if a.schema, err = loadSchema(a.schemaPath); err != nil {
		return err
	}

	a.log.Debug("schema loaded",
		zap.String("path", a.schemaPath),
		zap.Stringer("schema", a.schema),
	)
	return nil
}
