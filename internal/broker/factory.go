// Package broker selects the data and execution provider at startup.
// The choice between the live Alpaca provider and the in-memory
// simulator is made once here; the engine never branches on it again.
package broker

import (
	"context"
	"os"

	alpacabroker "stockpilot/internal/broker/alpaca"
	"stockpilot/internal/broker/sim"
	"stockpilot/internal/interfaces"
	"stockpilot/internal/logger"
)

// NewProvider returns the live Alpaca provider when credentials are set
// in the environment, otherwise the simulator.
func NewProvider(ctx context.Context, paper bool) (interfaces.Provider, error) {
	key := os.Getenv("ALPACA_API_KEY")
	secret := os.Getenv("ALPACA_API_SECRET")

	if key == "" || secret == "" {
		logger.Info(ctx, "No broker credentials found, using simulated provider")
		return sim.New(), nil
	}

	logger.Info(ctx, "Using Alpaca provider", "paper", paper)
	return alpacabroker.New(alpacabroker.Config{
		APIKey:    key,
		APISecret: secret,
		Paper:     paper,
	})
}

// IsLive reports whether broker credentials are present in the
// environment, i.e. whether NewProvider would pick Alpaca.
func IsLive() bool {
	return os.Getenv("ALPACA_API_KEY") != "" && os.Getenv("ALPACA_API_SECRET") != ""
}
