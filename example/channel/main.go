package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/airmon1101/kiln"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sink, samples, closeSamples := kiln.NewChannelSink("fanout", 32)
	defer closeSamples()

	go fanoutWorker("telemetry", samples)

	if err := kiln.Run(ctx, nil, kiln.WithSink(sink)); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(name string, samples <-chan kiln.TelemetrySample) {
	for s := range samples {
		fmt.Printf("[%s] phase=%d intensity=%d load=%.2f at %s\n",
			name, s.Phase, s.Intensity, s.Load1, s.Timestamp.Format(time.RFC3339))
	}
}
