// Package platecheck wires the vehicle lookup daemon together.
package platecheck

import (
	"context"
	"time"

	"github.com/autopeer-io/platecheck/internal/platecheck/server"
	"github.com/autopeer-io/platecheck/internal/platecheck/storage"
	"github.com/autopeer-io/platecheck/pkg/log"
)

const bucketCheckTimeout = 10 * time.Second

type PlatecheckServer struct {
	serverManager *server.Manager
	archive       *storage.MinIO
}

// Run starts every server and blocks until ctx is done or one of them fails.
func (s *PlatecheckServer) Run(ctx context.Context) error {
	log.Info("Starting platecheck...")

	if s.archive != nil {
		checkCtx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
		// Sharing degrades to an error response; lookups keep working.
		if err := s.archive.CheckBucket(checkCtx); err != nil {
			log.Error(err, "Report archive unavailable")
		}
		cancel()
	}

	return s.serverManager.Start(ctx)
}
