package nodeclient

import (
	"context"
	"time"

	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_logrus "github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus"
	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
)

const retryBackoff = 200 * time.Millisecond

// unaryInterceptor chains metrics, logging and retries for every call made
// to the node. Retries apply to queries only, submissions opt out with
// grpc_retry.Disable.
func unaryInterceptor(logger *log.Logger, maxRetries uint) grpc.DialOption {
	return grpc.WithUnaryInterceptor(
		middleware.ChainUnaryClient(
			grpc_prometheus.UnaryClientInterceptor,
			unaryLogger,
			grpc_logrus.UnaryClientInterceptor(log.NewEntry(logger)),
			grpc_retry.UnaryClientInterceptor(
				grpc_retry.WithMax(maxRetries),
				grpc_retry.WithBackoff(grpc_retry.BackoffLinear(retryBackoff)),
				grpc_retry.WithCodes(codes.Unavailable, codes.ResourceExhausted),
			),
		),
	)
}

func unaryLogger(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	log.Debug(method)
	return invoker(ctx, method, req, reply, cc, opts...)
}
