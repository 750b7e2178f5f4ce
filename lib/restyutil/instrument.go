package restyutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentOutput receives the full text of every exchange while debug
// logging is enabled.
type InstrumentOutput interface {
	Write(ctx context.Context, id string, contents string)
}

// SlogOutput writes exchanges to the default logger at debug level.
type SlogOutput struct{}

func (SlogOutput) Write(ctx context.Context, id string, contents string) {
	slog.DebugContext(ctx, "http message", "message_id", id, "contents", contents)
}

type messageIdKey struct{}

type instrumentCtx struct {
	tracer trace.Tracer
	output InstrumentOutput
}

// InstrumentClient wraps every request of client in a span. `tracer` can be
// nil, it will default to a library name of "resty". `output` can also be
// nil, in which case exchanges are only traced.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output InstrumentOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}
	i := instrumentCtx{tracer: tracer, output: output}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) debug(ctx context.Context) bool {
	return i.output != nil && slog.Default().Enabled(ctx, slog.LevelDebug)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	if i.debug(ctx) {
		messageId := uuid.NewString()
		slog.DebugContext(
			ctx, "start request",
			"method", req.Method,
			"url", RedactUrl(req.URL),
			"message_id", messageId,
		)
		ctx = context.WithValue(ctx, messageIdKey{}, messageId)
	}

	req.SetContext(ctx)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// request attributes are set here since res.Request.RawRequest is nil in onBeforeRequest
	span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	if messageId, ok := ctx.Value(messageIdKey{}).(string); ok && i.debug(ctx) {
		i.output.Write(ctx, messageId, FormatHttpMessage(res))
		slog.DebugContext(
			ctx, "request finished",
			"method", res.Request.Method,
			"status", res.StatusCode(),
			"message_id", messageId,
		)
	}
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")

	messageId, _ := ctx.Value(messageIdKey{}).(string)
	slog.ErrorContext(
		ctx, "request failed",
		"method", req.Method,
		"url", RedactUrl(req.URL),
		"err", err,
		"message_id", messageId,
	)

	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}
}
