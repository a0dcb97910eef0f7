// Package filter provides the filter chain that curates a loaded playlist.
package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/osa030/19player/internal/domain/track"
)

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // Set when rejected, e.g. "track_too_long"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for playlist filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// Check decides whether t is kept, given the tracks kept before it.
	Check(ctx context.Context, t track.Track, kept []track.Track) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}

// Names returns the registered filter names in sorted order.
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

// decodeSettings decodes filter settings into out, then applies defaults and validation tags.
func decodeSettings(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
