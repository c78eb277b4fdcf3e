// Package ssm serves experiment configuration from AWS Systems Manager Parameter Store.
package ssm

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/hatsunemiku3939/chaoslambda/source"
)

// Client defines the Parameter Store operations needed by Source.
// This allows for easier testing by mocking the SSM client.
type Client interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// Source reads parameters from Parameter Store.
type Source struct {
	client         Client
	withDecryption bool
}

// New creates a Parameter Store source. SecureString parameters are decrypted.
func New(client Client) *Source {
	return &Source{client: client, withDecryption: true}
}

// Fetch implements source.Source.
func (s *Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(s.withDecryption),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", source.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: get parameter %s: %w", source.ErrUnavailable, name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("%w: %s has no value", source.ErrNotFound, name)
	}
	return []byte(*out.Parameter.Value), nil
}

// Put stores value under name as a String parameter, overwriting any previous version.
func (s *Source) Put(ctx context.Context, name, value string) error {
	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("%w: put parameter %s: %w", source.ErrUnavailable, name, err)
	}
	return nil
}
