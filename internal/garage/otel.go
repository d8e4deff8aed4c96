package garage

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "worldsim/internal/garage"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
