package service

import (
	"context"
	"time"
)

// StartSweeper evicts idle runs every interval until ctx is done. onEvict,
// when set, receives the ids removed by each pass.
func (s *Runs) StartSweeper(ctx context.Context, interval time.Duration, onEvict func(ids []string)) {
	if s.opts.IdleTimeout <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ids := s.Evict(); len(ids) > 0 && onEvict != nil {
					onEvict(ids)
				}
			}
		}
	}()
}
