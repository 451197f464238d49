package audio

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/player"
)

// Opener creates Streams that share one Fetcher
type Opener struct {
	fetcher *Fetcher
	tick    time.Duration
	logger  *slog.Logger
}

// NewOpener creates an opener publishing time updates every tick
func NewOpener(fetcher *Fetcher, tick time.Duration, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{fetcher: fetcher, tick: tick, logger: logger}
}

// Open implements player.Opener
func (o *Opener) Open(ref string) (player.Media, error) {
	if _, err := url.Parse(ref); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResourceLoad, err)
	}
	return NewStream(ref, o.fetcher, o.tick, o.logger), nil
}
