package cli

import (
	"context"

	"github.com/dmitrijs2005/vignaraja/internal/client/services"
)

func (a *App) Dates(ctx context.Context) error {
	a.printDates()
	return nil
}

func (a *App) printDates() {
	a.println("Important dates:")
	for _, d := range services.ImportantDates {
		a.println("  " + d)
	}
}

func (a *App) Countdown(ctx context.Context) error {
	a.println(services.Countdown(a.now(), a.config.EventDate))
	return nil
}
