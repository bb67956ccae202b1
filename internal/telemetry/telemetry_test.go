package telemetry

import (
	"context"
	"testing"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background(), "catalog-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatalf("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown failed: %v", err)
	}
}

func TestSamplerRatio(t *testing.T) {
	cases := map[string]float64{
		"":     1,
		"0.25": 0.25,
		"0":    0,
		"2":    1,
		"abc":  1,
	}
	for raw, want := range cases {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", raw)
		if got := samplerRatio(); got != want {
			t.Fatalf("samplerRatio(%q): expected %v, got %v", raw, want, got)
		}
	}
}
