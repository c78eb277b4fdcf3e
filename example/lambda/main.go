// Command lambda is a chaos-enabled API Gateway function. CHAOS_HANDLER selects
// which wrapper is applied:
//
//	delay, delay_arg, delay_zero, exception, exception_arg, statuscode,
//	statuscode_arg, fault (unified schema), all (unified schema), dependency
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/hatsunemiku3939/chaoslambda"
	"github.com/hatsunemiku3939/chaoslambda/delay"
	"github.com/hatsunemiku3939/chaoslambda/internal/bootstrap"
	"github.com/hatsunemiku3939/chaoslambda/internal/logger"
	"github.com/hatsunemiku3939/chaoslambda/internal/settings"
)

type handler = chaoslambda.Handler[events.APIGatewayProxyRequest, *chaoslambda.ProxyResponse]

var errValue = errors.New("ValueError")

func hello(_ context.Context, _ events.APIGatewayProxyRequest) (*chaoslambda.ProxyResponse, error) {
	res := &chaoslambda.ProxyResponse{}
	res.StatusCode = 200
	res.Body = "Hello from Lambda!"
	return res, nil
}

// dependency calls a third-party endpoint through a delayed HTTP client.
func dependency(lg *zap.Logger) handler {
	client := delay.NewClient(nil, 300*time.Millisecond, delay.WithLogger(lg))
	return func(ctx context.Context, _ events.APIGatewayProxyRequest) (*chaoslambda.ProxyResponse, error) {
		url := os.Getenv("DEPENDENCY_URL")
		if url == "" {
			url = "https://checkip.amazonaws.com/"
		}
		resp, err := client.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		res := &chaoslambda.ProxyResponse{}
		res.StatusCode = 200
		res.Body = fmt.Sprintf("dependency answered %d", resp.StatusCode)
		return res, nil
	}
}

func build(inj *chaoslambda.Injector, lg *zap.Logger, variant string) (handler, error) {
	def := chaoslambda.DefaultPolicy()
	switch variant {
	case "delay", "":
		return chaoslambda.InjectDelay(inj, def, hello), nil
	case "delay_arg":
		return chaoslambda.InjectDelay(inj, chaoslambda.FaultPolicy{Name: "hello", Delay: chaoslambda.Ptr(1000)}, hello), nil
	case "delay_zero":
		return chaoslambda.InjectDelay(inj, chaoslambda.FaultPolicy{Name: "hello", Delay: chaoslambda.Ptr(0)}, hello), nil
	case "exception":
		return chaoslambda.InjectException(inj, def, hello), nil
	case "exception_arg":
		p := chaoslambda.FaultPolicy{ExceptionType: errValue, ExceptionMessage: "foo bar"}
		return chaoslambda.InjectException(inj, p, hello), nil
	case "statuscode":
		return chaoslambda.InjectStatusCode(inj, def, hello), nil
	case "statuscode_arg":
		return chaoslambda.InjectStatusCode(inj, chaoslambda.FaultPolicy{ErrorCode: chaoslambda.Ptr(400)}, hello), nil
	case "fault":
		return chaoslambda.InjectFault(inj, def, hello), nil
	case "all":
		return chaoslambda.InjectAll(inj, def, hello), nil
	case "dependency":
		return chaoslambda.Chain(dependency(lg),
			chaoslambda.FaultMiddleware[events.APIGatewayProxyRequest, *chaoslambda.ProxyResponse](inj, def),
		), nil
	}
	return nil, fmt.Errorf("unknown CHAOS_HANDLER %q", variant)
}

func main() {
	lg := logger.NewFromEnv()
	defer func() { _ = lg.Sync() }()

	s, err := settings.FromEnv()
	if err != nil {
		lg.Fatal("load settings", zap.Error(err))
	}
	inj, err := bootstrap.Injector(context.Background(), s, lg.Named("chaoslambda"))
	if err != nil {
		lg.Fatal("create injector", zap.Error(err))
	}
	h, err := build(inj, lg, os.Getenv("CHAOS_HANDLER"))
	if err != nil {
		lg.Fatal("select handler", zap.Error(err))
	}
	lambda.Start(h)
}
