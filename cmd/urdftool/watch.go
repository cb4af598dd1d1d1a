package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// Editors often save by writing a temp file and renaming it over the
// original, so the directory is watched rather than the file itself.
func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	settle := fs.Duration("settle", 200*time.Millisecond, "Wait for writes to settle before re-parsing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: urdftool watch [-settle 200ms] <file.urdf>")
		os.Exit(1)
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fatalf("creating watcher: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		fatalf("watching %s: %v", filepath.Dir(path), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report(path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(*settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.L("watch").Warn("watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			report(path)
		}
	}
}

// report parses path and prints a one-line summary or the parse error.
func report(path string) {
	stamp := time.Now().Format("15:04:05")
	m, err := urdf.ParseFile(path)
	if err != nil {
		fmt.Printf("[%s] %v\n", stamp, err)
		return
	}
	fmt.Printf("[%s] %s: %d links, %d joints (%d movable), root %s, %d warnings\n",
		stamp, m.Name, len(m.Links), len(m.Joints), len(m.MovableJoints()), m.RootName(), len(m.Warnings))
	for _, w := range m.Warnings {
		fmt.Printf("           %s: %s\n", w.Kind, w.Msg)
	}
}
