// Package walker produces an in-memory, structured view of the batch
// evidence currently present on the remote share.
//
// The share follows the convention
//
//	{base_path}/{hole_id}/batch-{to_depth}/depth.txt
//
// where depth.txt is a flat "key: value" marker file describing one batch's
// depth range and metadata. The walker reads markers, normalizes historical
// field-name aliases, and can also sweep the whole tree for evidence images,
// enriching each hit from batch-/sample- path tokens.
//
// Every operation is best-effort by design: remote faults are logged and
// degrade to empty results with explicit warnings and a Partial flag, and
// no operation retains a connection between calls.
package walker
