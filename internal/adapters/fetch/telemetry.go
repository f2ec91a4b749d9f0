package fetch

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/okian/ratingscope/internal/adapters/fetch"

// instrument wraps every request of client in an OpenTelemetry span.
func instrument(client *resty.Client) {
	tracer := otel.Tracer(tracerName)

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		ctx, span := tracer.Start(req.Context(), "fetch "+req.Method, trace.WithSpanKind(trace.SpanKindClient))
		span.SetAttributes(attribute.String("http.url", req.URL))
		req.SetContext(ctx)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		finishSpan(res)
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		span := trace.SpanFromContext(req.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
	})
}

// finishSpan records the response status on the request span and ends it.
func finishSpan(res *resty.Response) {
	span := trace.SpanFromContext(res.Request.Context())
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", res.StatusCode()))
	}
	span.End()
}
