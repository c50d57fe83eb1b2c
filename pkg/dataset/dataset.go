// Package dataset provides the fixed benchmark documents. Every dataset is built once on first
// access and shared afterwards; callers must treat the returned values as read-only, which the
// value package enforces.
package dataset

import (
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/wavesplatform/goserde/pkg/value"
)

const (
	CanadaName  = "canada"
	TwitterName = "twitter"
)

var ErrUnknownDataset = errors.New("unknown dataset")

var (
	canada  = sync.OnceValue(buildCanada)
	twitter = sync.OnceValue(buildTwitter)
)

var registry = map[string]func() value.Value{
	CanadaName:  Canada,
	TwitterName: Twitter,
}

// Canada returns the geographic dataset: a feature collection with a single polygon of many rings.
func Canada() value.Value {
	return canada()
}

// Twitter returns the social-media dataset: a search result with 100 statuses.
func Twitter() value.Value {
	return twitter()
}

// Names lists the known dataset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Build returns the dataset with the given name.
func Build(name string) (value.Value, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDataset, "%q", name)
	}
	return f(), nil
}
