package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/dshills/mediumdraft/internal/document"
)

func newValidateCmd() *cobra.Command {
	var docs []string
	cmd := &cobra.Command{
		Use:   "validate --doc raw.json [--doc ...]",
		Short: "Check raw documents against the document invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var errs error
			for _, path := range docs {
				if err := validateDoc(path); err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			return errs
		},
	}
	cmd.Flags().StringArrayVar(&docs, "doc", nil, "raw JSON document")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}

func validateDoc(path string) error {
	s, err := readDoc(path)
	if err != nil {
		return err
	}
	return errors.Wrapf(s.Validate(), "%s", path)
}

func readDoc(path string) (*document.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}
	s, err := document.ParseRaw(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}
