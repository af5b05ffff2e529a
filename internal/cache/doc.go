// Package cache provides a byte-bounded LRU for immutable blobs.
package cache
