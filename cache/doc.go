// Package cache provides a sharded LRU cache used for GPU objects that are
// expensive to create and must be released when evicted, such as render
// pipelines compiled from pipeline state descriptions.
//
// Values leaving the cache (capacity eviction, Delete, Clear) are passed to
// the optional eviction callback exactly once.
package cache
