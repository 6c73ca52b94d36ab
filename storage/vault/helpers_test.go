package vault

import (
	"io"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createEvent(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Create}
}

func removeEvent(name string) fsnotify.Event {
	return fsnotify.Event{Name: name, Op: fsnotify.Remove}
}
