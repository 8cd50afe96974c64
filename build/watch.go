package build

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch runs the driver on the module file at `path` once and then again
// every time the file is written or replaced, passing each unit to `fn`.  The
// containing directory is watched so that editors which save by renaming a
// temporary file are picked up.  Watch blocks until `ctx` is done or a
// configuration error occurs.
func (d *Driver) Watch(ctx context.Context, path string, fn func(*Unit)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	run := func() error {
		units, err := d.Run(ctx, []string{absPath})
		if err != nil {
			return err
		}

		fn(units[0])
		return nil
	}

	if err := run(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != absPath || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}

			// a run interrupted by cancellation is not an error
			if err := run(); err != nil && ctx.Err() == nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			return err
		}
	}
}
