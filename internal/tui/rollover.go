package tui

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StartRollover runs fn at every local midnight until stop is called.
func StartRollover(fn func()) (stop func(), err error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc("@midnight", func() {
		slog.Debug("day rollover")
		fn()
	}); err != nil {
		return nil, err
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
