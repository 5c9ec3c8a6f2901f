// Package registry tracks the set of mints a broker is willing to
// quote swaps against: a thread-safe cache of each mint's base URL,
// keyset, and capability info, filled either by explicit registration
// or by mDNS auto-discovery.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/backkem/ecashswap/pkg/mintapi"
	"github.com/backkem/ecashswap/pkg/mintclient"
)

// MintInfo is a registry's cached view of one mint.
type MintInfo struct {
	URL       string
	Info      mintapi.InfoResponse
	Keyset    mintapi.Keyset
	FetchedAt time.Time
}

// Registry is a thread-safe map of mint base URL to cached MintInfo.
type Registry struct {
	mu    sync.RWMutex
	mints map[string]MintInfo

	newClient func(url string) *mintclient.Client
}

// New creates an empty Registry. newClient, if nil, defaults to
// mintclient.New with the given base URL and no other configuration;
// tests can supply their own to inject a fake Doer.
func New(newClient func(url string) *mintclient.Client) *Registry {
	if newClient == nil {
		newClient = func(url string) *mintclient.Client {
			return mintclient.New(mintclient.Config{BaseURL: url})
		}
	}
	return &Registry{
		mints:     make(map[string]MintInfo),
		newClient: newClient,
	}
}

// Refresh fetches /v1/info and /v1/keys from the mint at url and
// stores the result, overwriting any existing entry for that URL. The
// registry always keeps the first keyset returned, matching the
// coordinator's single-keyset-per-mint assumption.
func (r *Registry) Refresh(ctx context.Context, url string) (MintInfo, error) {
	client := r.newClient(url)

	info, err := client.GetInfo(ctx)
	if err != nil {
		return MintInfo{}, err
	}

	keys, err := client.GetKeys(ctx)
	if err != nil {
		return MintInfo{}, err
	}
	var keyset mintapi.Keyset
	if len(keys.Keysets) > 0 {
		keyset = keys.Keysets[0]
	}

	entry := MintInfo{
		URL:       url,
		Info:      *info,
		Keyset:    keyset,
		FetchedAt: time.Now(),
	}

	r.mu.Lock()
	r.mints[url] = entry
	r.mu.Unlock()

	return entry, nil
}

// Register stores a MintInfo the caller has already fetched, without
// making any network call. Useful for tests and for mDNS discovery
// results, which carry enough TXT-record metadata to populate URL
// without a round trip.
func (r *Registry) Register(entry MintInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mints[entry.URL] = entry
}

// Lookup returns the cached entry for url.
func (r *Registry) Lookup(url string) (MintInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.mints[url]
	if !ok {
		return MintInfo{}, ErrUnknownMint
	}
	return entry, nil
}

// Remove drops url from the registry. It is not an error to remove an
// unknown URL.
func (r *Registry) Remove(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mints, url)
}

// List returns every cached entry, in no particular order.
func (r *Registry) List() []MintInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MintInfo, 0, len(r.mints))
	for _, entry := range r.mints {
		out = append(out, entry)
	}
	return out
}

// SupportsNut reports whether the cached info for url advertises
// support for the given NUT number.
func (r *Registry) SupportsNut(url string, nut string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.mints[url]
	if !ok {
		return false
	}
	_, ok = entry.Info.Nuts[nut]
	return ok
}
