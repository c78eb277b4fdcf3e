package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatsunemiku3939/chaoslambda"
)

var errNoParam = errors.New("no parameter name: set --param or " + chaoslambda.ParamEnvKey)

func (o *rootOptions) requireParam() error {
	if o.param == "" {
		return errNoParam
	}
	return nil
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the stored configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireParam(); err != nil {
				return err
			}
			st, err := opts.store(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := st.Fetch(cmd.Context(), opts.param)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}

func newPutCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Validate a configuration file and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireParam(); err != nil {
				return err
			}
			schema, err := opts.parsedSchema()
			if err != nil {
				return err
			}
			raw, err := readConfig(cmd, file)
			if err != nil {
				return err
			}
			if _, err := check(raw, schema); err != nil {
				return err
			}
			st, err := opts.store(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.Put(cmd.Context(), opts.param, string(raw)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", opts.param)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Configuration file, - for stdin")
	return cmd
}

// setEnabled rewrites the master switch of raw, keeping every other field as stored.
func setEnabled(raw []byte, schema chaoslambda.Schema, enabled bool) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode stored configuration: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	fields[schema.EnabledKey()] = enabled
	return json.Marshal(fields)
}

func newToggleCmd(opts *rootOptions, enabled bool) *cobra.Command {
	use, short := "disable", "Turn the experiment off"
	if enabled {
		use, short = "enable", "Turn the experiment on"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.requireParam(); err != nil {
				return err
			}
			schema, err := opts.parsedSchema()
			if err != nil {
				return err
			}
			st, err := opts.store(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := st.Fetch(cmd.Context(), opts.param)
			if err != nil {
				return err
			}
			updated, err := setEnabled(raw, schema, enabled)
			if err != nil {
				return err
			}
			if _, err := check(updated, schema); err != nil {
				return err
			}
			if err := st.Put(cmd.Context(), opts.param, string(updated)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %sd\n", opts.param, use)
			return nil
		},
	}
}
