package main

import (
	"context"
	"os"

	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/spf13/cobra"

	"github.com/hatsunemiku3939/chaoslambda"
	"github.com/hatsunemiku3939/chaoslambda/internal/awsconf"
	"github.com/hatsunemiku3939/chaoslambda/internal/logger"
	chaosssm "github.com/hatsunemiku3939/chaoslambda/source/ssm"
)

// store is the part of the Parameter Store source the commands need.
type store interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name, value string) error
}

type storeFactory func(ctx context.Context, region string) (store, error)

func defaultStore(ctx context.Context, region string) (store, error) {
	cfg, err := awsconf.Load(ctx, region, logger.Named("aws"))
	if err != nil {
		return nil, err
	}
	return chaosssm.New(awsssm.NewFromConfig(cfg)), nil
}

type rootOptions struct {
	param      string
	region     string
	schema     string
	jsonOutput bool
	newStore   storeFactory
}

func (o *rootOptions) parsedSchema() (chaoslambda.Schema, error) {
	return chaoslambda.ParseSchema(o.schema)
}

func (o *rootOptions) store(ctx context.Context) (store, error) {
	return o.newStore(ctx, o.region)
}

func newRootCmd(newStore storeFactory) *cobra.Command {
	opts := &rootOptions{newStore: newStore}

	cmd := &cobra.Command{
		Use:   "chaosctl",
		Short: "Manage chaos experiment configurations",
		Long: `chaosctl validates, reads and writes the JSON configuration that drives
fault injection in chaos-enabled functions.

The parameter name defaults to the CHAOS_PARAM environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.param, "param", os.Getenv(chaoslambda.ParamEnvKey), "Parameter Store name of the configuration")
	cmd.PersistentFlags().StringVar(&opts.region, "region", os.Getenv("AWS_REGION"), "AWS region")
	cmd.PersistentFlags().StringVar(&opts.schema, "schema", "legacy", "Configuration schema: legacy or unified")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output results in JSON format")

	cmd.AddCommand(
		newValidateCmd(opts),
		newGetCmd(opts),
		newPutCmd(opts),
		newToggleCmd(opts, true),
		newToggleCmd(opts, false),
	)
	return cmd
}
