package aflib

import (
	"context"
	"encoding/hex"
	"strconv"

	"github.com/shimmeringbee/persistence"

	"github.com/edgekit/aflib/profile"
)

// Cache retains the last notified value of attributes the profile flags as
// stored in flash, backed by a persistence section so the values survive a
// process restart.
type Cache struct {
	section persistence.Section
	schema  *profile.Profile
}

func NewCache(s persistence.Section, p *profile.Profile) *Cache {
	return &Cache{section: s, schema: p}
}

// AttachCache subscribes a cache to this client's attribute updates. Must be
// called before Start.
func (c *Client) AttachCache(cache *Cache) {
	c.callbacks.Add(cache.attributeUpdateCallback)
}

func (c *Cache) attributeUpdateCallback(_ context.Context, e attributeUpdate) error {
	// Without a profile no attribute can be known to be flash stored.
	if c.schema == nil {
		return nil
	}

	if a := c.schema.Find(e.attrID); a == nil || a.Flags&profile.FlagStoreInFlash == 0 {
		return nil
	}

	c.section.Set(cacheKey(e.attrID), hex.EncodeToString(e.value))

	return nil
}

// Value returns the last stored value for an attribute id, if any.
func (c *Cache) Value(attrID uint16) ([]byte, bool) {
	encoded, found := c.section.String(cacheKey(attrID))
	if !found {
		return nil, false
	}

	value, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, false
	}

	return value, true
}

func cacheKey(attrID uint16) string {
	return strconv.Itoa(int(attrID))
}
