package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.sales.enabled") {
		closer, err := sales.New(sales.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module sales", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Sales"] = closer
		}
	}
}
