package conn

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tobsdb/tdblite/internal/auth"
	"github.com/tobsdb/tdblite/internal/query"
	"github.com/tobsdb/tdblite/pkg"
)

// Server accepts websocket connections and runs their commands against
// one engine. Writes are serialized through Locker.
type Server struct {
	Locker sync.RWMutex
	engine *query.Engine
	// nil when connections don't authenticate
	user *auth.User
}

func NewServer(engine *query.Engine, user *auth.User) *Server {
	return &Server{engine: engine, user: user}
}

func (s *Server) GetLocker() *sync.RWMutex { return &s.Locker }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.HandleConnection)
	return mux
}

// Listen serves on addr until ctx is done or the process is interrupted.
func (s *Server) Listen(ctx context.Context, addr string) error {
	exit := make(chan os.Signal, 2)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(exit)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  0,
		WriteTimeout: 0,
	}

	errs := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	pkg.InfoLog("tdblite listening on", addr)
	select {
	case err := <-errs:
		return err
	case <-exit:
	case <-ctx.Done():
	}

	pkg.DebugLog("Shutting down...")
	return srv.Shutdown(context.Background())
}
