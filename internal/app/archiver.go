package app

import (
	"context"
	"time"
)

// ArchivePastShowtimes transitions every active showtime that started before
// today to completed. The cutoff is normalized to midnight so a sweep never
// touches showtimes scheduled for the current day.
func (app *Application) ArchivePastShowtimes(ctx context.Context) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	archived, err := app.showtimeRepo.ArchivePast(ctx, cutoff)
	if err != nil {
		app.logger.Error("showtime archival sweep failed", "error", err)
		return
	}

	app.logger.Info("showtime archival sweep finished", "archived", archived, "cutoff", cutoff)
}
