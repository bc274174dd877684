// Package cache provides a small in-process LRU cache whose entries expire
// after a fixed time to live.
//
//	c := cache.NewLRU[string, geoip.Location](4096, 24*time.Hour)
//	c.Put("203.0.113.7", loc)
//	loc, ok := c.Get("203.0.113.7")
//
// The cache is safe for concurrent use. Expired entries are dropped lazily
// when read, or evicted as least recently used.
package cache
