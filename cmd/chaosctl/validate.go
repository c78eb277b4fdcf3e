package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/hatsunemiku3939/chaoslambda"
)

type validateResult struct {
	Valid    bool     `json:"valid"`
	Schema   string   `json:"schema"`
	Enabled  bool     `json:"enabled"`
	Rate     float64  `json:"rate"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// readConfig loads a JSON or YAML configuration file as JSON. "-" reads stdin.
func readConfig(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// check parses raw and collects magnitude problems. A non-nil error means
// the configuration would be rejected as a whole.
func check(raw []byte, schema chaoslambda.Schema) (validateResult, error) {
	res := validateResult{Schema: schema.String()}
	cfg, err := chaoslambda.Parse(raw, schema)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	res.Valid = true
	res.Enabled = cfg.Enabled()
	res.Rate = cfg.Rate()

	if _, _, err := cfg.Delay(); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	if _, _, err := cfg.ErrorCode(); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	if _, _, err := cfg.ExceptionMessage(); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	if schema == chaoslambda.SchemaUnified && cfg.Enabled() && cfg.Has(chaoslambda.KeyFaultType) && !cfg.FaultType().Valid() {
		res.Warnings = append(res.Warnings, fmt.Sprintf("unknown fault_type %q, the handler will run unmodified", cfg.FaultType()))
	}
	return res, nil
}

func printResult(cmd *cobra.Command, opts *rootOptions, res validateResult) {
	if opts.jsonOutput {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return
	}
	if !res.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", res.Error)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "valid %s configuration (enabled=%t, rate=%v)\n", res.Schema, res.Enabled, res.Rate)
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a JSON or YAML configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := opts.parsedSchema()
			if err != nil {
				return err
			}
			raw, err := readConfig(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := check(raw, schema)
			printResult(cmd, opts, res)
			return err
		},
	}
}
