package middleware

import (
	"context"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ejfii/beginners-luck-sub000/internal/middleware"

// TracingInterceptor starts a server span per RPC named after the procedure.
func TracingInterceptor(tp trace.TracerProvider) connect.UnaryInterceptorFunc {
	tracer := tp.Tracer(tracerName)
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx, span := tracer.Start(ctx, req.Spec().Procedure,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String("rpc.system", "connect_rpc")),
			)
			defer span.End()

			resp, err := next(ctx, req)

			span.SetAttributes(attribute.String("rpc.connect_rpc.code", codeName(err)))
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return resp, err
		}
	}
}
