// Package preview serves the generated site locally and re-triggers full
// builds when the content tree changes. It is a thin collaborator around
// the builder: overlapping change bursts coalesce into a single pending
// rebuild, and a failed rebuild keeps serving the last good output.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

const debounceDelay = 300 * time.Millisecond

// Serve runs the preview loop until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, builder *build.Builder, recorder *metrics.PrometheusRecorder, port int) error {
	if err := builder.Run(ctx, false); err != nil {
		// The preview keeps running on a failed initial build so the user
		// can fix content with the watcher already live.
		slog.Error("initial build failed", logfields.Error(err))
	}

	watcher, err := setupWatcher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := debouncer()
	go rebuildWorker(ctx, builder, rebuildReq)

	server := newServer(cfg.OutputDir, recorder, port)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	go func() {
		slog.Info("preview server listening", slog.Int("port", port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", port)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("preview server failed", logfields.Error(err))
		}
	}()

	return watchLoop(ctx, watcher, trigger)
}

func setupWatcher(cfg *config.Config) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, cfg.ContentDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	// Template edits should also re-trigger a build.
	for _, tpl := range []string{cfg.Template, cfg.HomeTemplate} {
		if tpl == "" {
			continue
		}
		if err := watcher.Add(filepath.Dir(tpl)); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", tpl, err)
		}
	}
	return watcher, nil
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("watch %s: %w", p, err)
			}
		}
		return nil
	})
}

// debouncer returns the rebuild channel and a trigger that coalesces event
// bursts: repeated triggers within the delay collapse into one pending
// rebuild, and at most one rebuild is ever queued.
func debouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func rebuildWorker(ctx context.Context, builder *build.Builder, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			builder.InvalidateTemplates()
			start := time.Now()
			if err := builder.Run(ctx, false); err != nil {
				slog.Error("rebuild failed", logfields.Error(err))
				continue
			}
			slog.Info("rebuilt",
				logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addDirsRecursive(watcher, event.Name)
				}
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// shouldIgnoreEvent filters editor temp files and hidden paths.
func shouldIgnoreEvent(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	if strings.HasPrefix(name, "#") && strings.HasSuffix(name, "#") {
		return true
	}
	return strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, "~")
}

func newServer(outputDir string, recorder *metrics.PrometheusRecorder, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(outputDir)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if recorder != nil {
		mux.Handle("/metrics", recorder.Handler())
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
