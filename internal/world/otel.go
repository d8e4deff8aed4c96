package world

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "worldsim/internal/world"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	vetoed    metric.Int64Counter
	damage    metric.Int64Counter
	destroyed metric.Int64Counter
	live      metric.Int64ObservableGauge
}

func (w *World) initInstruments() error {
	m := meter()
	var err error

	w.metrics.vetoed, err = m.Int64Counter(
		"world.contacts.vetoed",
		metric.WithDescription("Contacts denied a physical response"),
	)
	if err != nil {
		return fmt.Errorf("creating vetoed counter: %w", err)
	}

	w.metrics.damage, err = m.Int64Counter(
		"world.damage.delivered",
		metric.WithDescription("Damage events delivered by the world"),
	)
	if err != nil {
		return fmt.Errorf("creating damage counter: %w", err)
	}

	w.metrics.destroyed, err = m.Int64Counter(
		"world.objects.destroyed",
		metric.WithDescription("Objects removed from the registry"),
	)
	if err != nil {
		return fmt.Errorf("creating destroyed counter: %w", err)
	}

	w.metrics.live, err = m.Int64ObservableGauge(
		"world.objects.live",
		metric.WithDescription("Objects currently in the registry"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(w.reg.Len()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating live gauge: %w", err)
	}
	return nil
}
