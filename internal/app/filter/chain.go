package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/domain/track"
	"github.com/osa030/19player/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// NewChainFromConfig builds a chain from the enabled filters in cfg, ordered by name.
func NewChainFromConfig(cfg map[string]config.FilterConfig) (*Chain, error) {
	names := make([]string, 0, len(cfg))
	for name, fc := range cfg {
		if fc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	chain := NewChain()
	for _, name := range names {
		factory, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
		f := factory()
		if err := f.ValidateConfig(cfg[name].Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
	}
	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Check runs all filters in sequence.
// Returns immediately if any filter rejects the track.
func (c *Chain) Check(ctx context.Context, t track.Track, kept []track.Track) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, t, kept)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply returns a playlist holding only the tracks of pl every filter accepts, in order.
// It fails when no track survives.
func (c *Chain) Apply(ctx context.Context, pl *playlist.Playlist) (*playlist.Playlist, error) {
	if len(c.filters) == 0 {
		return pl, nil
	}

	kept := make([]track.Track, 0, pl.Len())
	for _, t := range pl.Tracks() {
		if result := c.Check(ctx, t, kept); !result.Accepted {
			zlog.Debug().Msgf("filter: dropped track: title=%q artist=%q code=%s", t.Title, t.Artist, result.Code)
			continue
		}
		kept = append(kept, t)
	}

	zlog.Info().Msgf("filter: playlist curated: kept=%d dropped=%d", len(kept), pl.Len()-len(kept))
	filtered, err := playlist.New(pl.Name(), kept)
	if err != nil {
		return nil, errors.Wrap(err, "no tracks left after filtering")
	}
	return filtered, nil
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
