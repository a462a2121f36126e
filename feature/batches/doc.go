// Package batches is the record-keeping feature: operator-recorded core
// scan batches persisted through gorm, reconciled against remote share
// evidence and served as a JSON API.
//
// The service layer owns two independent caches (dashboard stats and share
// scan results) and coalesces concurrent share scans through a
// singleflight group, so the expensive full-tree walk runs at most once
// per cache window regardless of request fan-in.
package batches
