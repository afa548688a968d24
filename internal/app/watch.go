package app

import (
	"context"
	"os"
	"time"

	"github.com/dshills/undoctx/internal/watcher"
)

// Watch runs the script once and again after every change to it, until ctx
// is cancelled, and then returns ctx.Err(). Script failures are logged and do
// not stop the loop.
func (app *Application) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := watcher.New(watcher.WithDebounce(debounce))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	defer w.Close()

	if err := w.Add(app.opts.Script); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}

	app.runLogged(ctx)

	log := app.logger.WithComponent("watch")
	err = w.Run(ctx, func(ev watcher.Event) {
		log.Info("%s changed (%s)", ev.Path, ev.Op)
		if _, err := os.Stat(ev.Path); err != nil {
			// Removed or renamed away; wait for it to come back.
			return
		}
		app.runLogged(ctx)
	}, func(err error) {
		log.Warn("watch error: %v", err)
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (app *Application) runLogged(ctx context.Context) {
	if err := app.RunOnce(ctx); err != nil {
		app.logger.Error("%v", err)
	}
}
