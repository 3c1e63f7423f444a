// Package server serves OpenAPI documentation over HTTP.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vitalvas/apishape/openapi"
)

// Options configures New.
type Options struct {
	// Addr is the listen address.
	Addr string

	// DocsPath is the base path of the docs UI (default: "/docs").
	DocsPath string

	// Bundles, when set, is served read-only under /bundles/. Directories
	// are never listed.
	Bundles fs.FS

	Logger *slog.Logger
}

// New returns an HTTP server for spec. The root path redirects to the docs
// UI.
func New(spec *openapi.Spec, opts Options) *http.Server {
	docsPath := strings.TrimRight(opts.DocsPath, "/")
	if docsPath == "" {
		docsPath = "/docs"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mux := http.NewServeMux()
	docs := spec.Handler(docsPath, nil)
	mux.Handle(docsPath, docs)
	mux.Handle(docsPath+"/", docs)

	if opts.Bundles != nil {
		mux.Handle("GET /bundles/", http.StripPrefix("/bundles", http.FileServerFS(noDirListingFS{opts.Bundles})))
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, docsPath+"/", http.StatusFound)
	})

	handler := Chain(mux,
		RequestID(),
		Recovery(logger),
		AccessLog(logger),
		CORS(),
	)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves srv until ctx is done, then shuts it down gracefully.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// noDirListingFS hides directories, so http.FileServer answers 404
// instead of a listing.
type noDirListingFS struct {
	fs fs.FS
}

func (n noDirListingFS) Open(name string) (fs.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if stat.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}
