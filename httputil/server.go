package httputil

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// RunServer serves until ctx is cancelled, then shuts down, waiting
// at most shutdownTimeout for in-flight requests
func RunServer(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	chServerClosed := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		// mute error caused by Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		chServerClosed <- err
	}()

	select {
	case err := <-chServerClosed:
		return err
	case <-ctx.Done():
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctxShutdown)
	if err2 := <-chServerClosed; err == nil {
		err = err2
	}
	return err
}

// RunServerUntilSignal is RunServer that stops on SIGINT or SIGTERM
func RunServerUntilSignal(srv *http.Server, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt /* SIGINT */, syscall.SIGTERM)
	defer stop()
	return RunServer(ctx, srv, ln, 5*time.Second)
}
