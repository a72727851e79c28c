package block

import (
	"context"
	"time"

	"amplify/core"
	"amplify/internal/amplify"
)

type service struct {
	system *core.System
}

// New new block service
func New(system *core.System) core.IBlockService {
	return &service{
		system: system,
	}
}

// GetBlock get block by time
func (s *service) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	block, e := amplify.BlockAt(t, s.system.SecondsPerBlock, s.system.Genesis)
	if e != nil {
		return 0, e
	}
	return block, nil
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return s.GetBlock(ctx, time.Now())
}
