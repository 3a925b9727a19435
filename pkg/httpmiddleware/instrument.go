package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument wraps handlers with OpenTelemetry tracing plus a request
// counter labeled by method and path. Route patterns here are static
// strings, so the path label stays low-cardinality.
func Instrument(service string, m *app.Telemetry) Middleware {
	tracing := otelhttp.NewMiddleware(service,
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	counter, err := m.MeterProvider().Meter(service).Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests received"),
	)

	return func(next http.Handler) http.Handler {
		counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err == nil {
				counter.Add(r.Context(), 1,
					metric.WithAttributes(
						attribute.String("http.method", r.Method),
						attribute.String("http.path", r.URL.Path),
					),
				)
			}
			next.ServeHTTP(w, r)
		})
		return tracing(counted)
	}
}
