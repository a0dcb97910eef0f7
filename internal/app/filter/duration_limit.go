package filter

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/domain/track"
)

// Codes returned by DurationLimitFilter.
const (
	CodeTooShort = "track_too_short"
	CodeTooLong  = "track_too_long"
)

// DurationLimitConfig bounds track length in minutes.
// MinMinutes defaults to 1 when omitted; an explicit 0 means no lower bound.
// A zero MaxMinutes means no upper bound.
type DurationLimitConfig struct {
	MinMinutes *float64 `mapstructure:"min_minutes" default:"1" validate:"required,gte=0"`
	MaxMinutes float64  `mapstructure:"max_minutes" validate:"gte=0"`
}

func (c DurationLimitConfig) bounds() (minimum, maximum time.Duration) {
	minimum = time.Duration(*c.MinMinutes * float64(time.Minute))
	maximum = time.Duration(c.MaxMinutes * float64(time.Minute))
	return minimum, maximum
}

// DurationLimitFilter drops tracks outside a length window.
type DurationLimitFilter struct {
	min, max time.Duration
	enabled  bool
}

// NewDurationLimitFilter creates an unconfigured filter that keeps every track.
func NewDurationLimitFilter() *DurationLimitFilter {
	return &DurationLimitFilter{}
}

func (f *DurationLimitFilter) Name() string {
	return "duration_limit_filter"
}

func (f *DurationLimitFilter) Description() string {
	return "Drops tracks shorter than min_minutes or longer than max_minutes"
}

func (f *DurationLimitFilter) ReturnCodes() []string {
	return []string{CodeTooShort, CodeTooLong}
}

func (f *DurationLimitFilter) ValidateConfig(settings map[string]any) error {
	var cfg DurationLimitConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return err
	}
	if cfg.MaxMinutes > 0 && *cfg.MinMinutes > cfg.MaxMinutes {
		return errors.Newf("min_minutes (%g) exceeds max_minutes (%g)", *cfg.MinMinutes, cfg.MaxMinutes)
	}

	f.min, f.max = cfg.bounds()
	f.enabled = true
	zlog.Debug().Msgf("filter: duration limit: min=%s max=%s", f.min, f.max)
	return nil
}

func (f *DurationLimitFilter) Check(_ context.Context, t track.Track, _ []track.Track) Result {
	if !f.enabled {
		return Accept()
	}

	d := t.Duration()
	switch {
	case d < f.min:
		return Reject(CodeTooShort)
	case f.max > 0 && d > f.max:
		return Reject(CodeTooLong)
	}
	return Accept()
}

func init() {
	Register("duration_limit_filter", func() Filter {
		return NewDurationLimitFilter()
	})
}
