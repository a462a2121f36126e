// Package cache provides a concurrency-safe, time-bounded cache used in
// front of the walker's expensive remote operations.
//
// The process owns two independent instances, one for locally derived
// aggregate statistics and one for remote share results, constructed once
// at startup and handed to whatever serves requests; there is no ambient
// global cache state.
package cache
