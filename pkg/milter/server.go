package milter

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/d--j/go-milter"

	"github.com/spampipe/spampipe/pkg/config"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// Server serves a trained spam pipeline model over the milter protocol
type Server struct {
	config    *config.Config
	model     *pipeline.Model
	milterSrv *milter.Server
}

// NewServer creates a milter server scoring messages with the given
// trained model
func NewServer(cfg *config.Config, model *pipeline.Model) (*Server, error) {
	if model == nil {
		return nil, fmt.Errorf("milter server needs a trained model")
	}

	var milterOpts []milter.Option

	actions := milter.OptAddHeader
	milterOpts = append(milterOpts, milter.WithAction(actions))

	if cfg.Milter.ReadTimeoutMs > 0 {
		milterOpts = append(milterOpts, milter.WithReadTimeout(
			time.Duration(cfg.Milter.ReadTimeoutMs)*time.Millisecond))
	}
	if cfg.Milter.WriteTimeoutMs > 0 {
		milterOpts = append(milterOpts, milter.WithWriteTimeout(
			time.Duration(cfg.Milter.WriteTimeoutMs)*time.Millisecond))
	}

	milterOpts = append(milterOpts, milter.WithMilter(func() milter.Milter {
		return NewHandler(cfg, model)
	}))

	return &Server{
		config:    cfg,
		model:     model,
		milterSrv: milter.NewServer(milterOpts...),
	}, nil
}

// Serve accepts milter connections until the context is cancelled, then
// shuts down gracefully
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.milterSrv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(s.config.Milter.GracefulShutdownTimeoutMs)*time.Millisecond,
		)
		defer cancel()

		if err := s.milterSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown milter server: %v", err)
		}
		return ctx.Err()

	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("milter server error: %v", err)
		}
		return nil
	}
}

// Close closes the milter server
func (s *Server) Close() error {
	return s.milterSrv.Close()
}
