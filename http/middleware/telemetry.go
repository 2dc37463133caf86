package middlewares

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-recipe-service/infra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryMiddleware tags each request with an id, opens a span for its
// lifetime and counts it by route and status.
func TelemetryMiddleware(logger *infra.LoggerClient) gin.HandlerFunc {
	tracer := otel.Tracer("gau-recipe-service/http")
	meter := otel.Meter("gau-recipe-service/http")

	requestCounter, err := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Count of handled HTTP requests"),
	)
	if err != nil {
		requestCounter = nil
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, span := tracer.Start(c.Request.Context(), fmt.Sprintf("%s %s", c.Request.Method, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("request.id", requestID),
			),
		)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
		}
		span.End()

		if requestCounter != nil {
			requestCounter.Add(ctx, 1,
				metric.WithAttributes(
					attribute.String("http.method", c.Request.Method),
					attribute.String("http.route", route),
					attribute.Int("http.status_code", status),
				),
			)
		}

		if status >= 500 {
			logger.WarningWithContextf(ctx, "[HTTP] %s %s -> %d (%s)", c.Request.Method, route, status, elapsed)
		}
	}
}
