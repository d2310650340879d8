package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rosiface/internal/adapters"
	"rosiface/internal/core"
)

const shutdownTimeout = 5 * time.Second

// Handler returns the HTTP query API over the loaded descriptors.
func (s Service) Handler() http.Handler {
	var metrics http.Handler
	if s.Metrics != nil {
		metrics = s.Metrics.Handler()
	}
	return adapters.NewHTTPQueryHandler(s.Catalog, s.Query, metrics).Router()
}

// Serve runs the HTTP query API until ctx is done. With Watch set, changed
// descriptor files are reloaded while serving.
func (s Service) Serve(ctx context.Context, req ServeRequest) error {
	listener, err := net.Listen("tcp", req.Addr)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to listen on " + req.Addr).
			WithCause(err)
	}
	return s.serve(ctx, listener, req)
}

func (s Service) serve(ctx context.Context, listener net.Listener, req ServeRequest) error {
	if req.Watch {
		watcher := s.Watcher
		if req.Debounce > 0 {
			watcher = adapters.NewDescriptorWatcherAdapter(req.Debounce)
		}
		changes, err := watcher.Watch(ctx, req.Paths)
		if err != nil {
			_ = listener.Close()
			return err
		}
		go func() {
			for batch := range changes {
				s.ReloadFiles(ctx, batch)
			}
		}()
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()
	log.Ctx(ctx).Info().Str("addr", listener.Addr().String()).Bool("watch", req.Watch).Msg("serving descriptor queries")

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("http server failed").
			WithCause(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("http server shutdown failed").
			WithCause(err)
	}
	return nil
}

// ReloadFiles re-registers the components of the given descriptor files.
// Removed files are skipped; their components stay registered.
func (s Service) ReloadFiles(ctx context.Context, files []string) LoadResult {
	result := LoadResult{}
	loader := core.NewLoader()
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			log.Ctx(ctx).Info().Str("source", path).Msg("descriptor removed, keeping registered components")
			continue
		}
		result.Files = append(result.Files, path)
		doc, err := s.Source.LoadDocument(path)
		if err != nil {
			s.loadFailed(ctx, path, "", err)
			result.Failures = append(result.Failures, err)
			continue
		}
		s.registerDocument(ctx, loader, doc, &result)
	}
	if s.Metrics != nil && len(result.Files) > 0 {
		s.Metrics.Reloaded()
	}
	log.Ctx(ctx).Info().
		Strs("files", result.Files).
		Strs("components", result.Registered).
		Int("failures", len(result.Failures)).
		Msg("descriptors reloaded")
	return result
}
