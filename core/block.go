package core

import (
	"context"
	"time"
)

// IBlockService block service interface. Blocks are derived from the host
// timestamp: (t - genesis) / secondsPerBlock.
type IBlockService interface {
	GetBlock(ctx context.Context, t time.Time) (int64, error)
	CurrentBlock(ctx context.Context) (int64, error)
}
