package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/goktugoner23/allinone-external-sub002/internal/adapter/utils"
	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/middleware"
	"github.com/goktugoner23/allinone-external-sub002/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Post("/query", middleware.QueryHandler)
	r.Router.Post("/documents", middleware.AddDocumentHandler)
	r.Router.Get("/documents", middleware.ListDocumentsHandler)
	r.Router.Put("/documents/{id}", middleware.UpdateDocumentHandler)
	r.Router.Delete("/documents/{id}", middleware.DeleteDocumentHandler)
	r.Router.Post("/documents/upload", middleware.UploadDocumentHandler)
	r.Router.Get("/jobs/{id}", middleware.GetJobStatusHandler)
	r.Router.Get("/status", middleware.GetStatusHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	if _logger == nil {
		_logger = logger_i.NewLogger("Server")
	}
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		// Drain workers before external clients close.
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Shut down cleanly")
	case <-ctx.Done():
		_logger.Info("Forcing shut down")
		os.Exit(1)
	}
}
