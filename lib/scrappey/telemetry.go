package scrappey

import (
	"scrappey-go/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("scrappey.lib.scrappey")
var meter = telemetry.Meter("scrappey.lib.scrappey")

var dispatchCounter, _ = meter.Int64Counter(
	"scrappey.dispatches",
	metric.WithDescription("requests sent to scrappey.com"),
)
var rejectedCounter, _ = meter.Int64Counter(
	"scrappey.rejected",
	metric.WithDescription("requests rejected before being sent"),
)
