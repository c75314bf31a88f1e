// Package dedupe collapses concurrent identical read queries into one call.
// Callers sharing a key while a query is in flight receive its result.
package dedupe

import "golang.org/x/sync/singleflight"

// Group deduplicates calls by key. The zero value is ready to use.
type Group struct {
	g singleflight.Group
}

// Do runs fn once for all concurrent callers of key. shared reports whether
// the result was handed to more than one caller.
func Do[T any](g *Group, key string, fn func() (T, error)) (v T, shared bool, err error) {
	out, err, shared := g.g.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return v, shared, err
	}
	return out.(T), shared, nil
}

// Forget drops key so the next call runs fn again even if one is in flight.
func (g *Group) Forget(key string) {
	g.g.Forget(key)
}
