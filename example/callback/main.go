package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/airmon1101/kiln/pkg/kiln"
)

func main() {
	cfg := kiln.DefaultConfig()
	cfg.Stress.PhaseDuration = 10 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	onSample := func(s kiln.TelemetrySample) error {
		temp := "n/a"
		if s.HasTemp {
			temp = fmt.Sprintf("%.1f", s.TempC)
		}
		fmt.Printf("%s phase=%d intensity=%d usage=%.1f%% temp=%s\n",
			s.Timestamp.Format(time.RFC3339),
			s.Phase,
			s.Intensity,
			s.UsagePct,
			temp,
		)
		return nil
	}

	onEvent := func(msg string) error {
		fmt.Println(">>", msg)
		return nil
	}

	h, err := kiln.New(cfg, kiln.WithSink(kiln.NewCallbackSink("stdout", onSample, onEvent)))
	if err != nil {
		log.Fatalf("build harness: %v", err)
	}

	if err := h.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
