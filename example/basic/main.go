package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/airmon1101/kiln"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kiln.Run(ctx, nil); err != nil {
		log.Fatalf("harness exited: %v", err)
	}
}
