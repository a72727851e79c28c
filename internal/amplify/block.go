package amplify

import (
	"errors"
	"time"
)

// BlockAt block number for a host-supplied timestamp.
func BlockAt(t time.Time, secondsPerBlock, genesis int64) (int64, error) {
	if secondsPerBlock <= 0 {
		return 0, errors.New("secondsPerBlock should not be less than or equal zero")
	}

	seconds := t.UTC().Unix() - genesis
	if seconds < 0 {
		return 0, errors.New("invalid blocks")
	}

	return seconds / secondsPerBlock, nil
}
