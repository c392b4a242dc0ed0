package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/apex/log"

	"herbula/api/internal/handle"
)

// Register вешает /healthz и /GenerateSuggestions на mux (nil = DefaultServeMux).
// ping may be nil when there is no database to check.
func Register(mux *http.ServeMux, h *handle.Handle, ping func(context.Context) error) {
	if mux == nil {
		mux = http.DefaultServeMux
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if h != nil {
		mux.HandleFunc("/GenerateSuggestions", h.Suggestions)
	}
}

// Serve runs the server until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down http server")
		return srv.Shutdown(shutCtx)
	}
}
