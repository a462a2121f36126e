// Package validate decides whether locally recorded batches agree with the
// remote evidence believed to correspond to them, and explains any
// disagreement as structured discrepancy data.
//
// A mismatch is not an error here: discrepancies are the expected output,
// handed back to the record-keeping layer, which decides what to do with
// the batch (typically flipping its status). Depth comparisons use a fixed
// absolute tolerance in meters, and remote records whose own depths are
// unknown (the zero/zero convention) never confirm nor contradict a match.
package validate
