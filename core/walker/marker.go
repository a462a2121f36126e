package walker

import (
	"strconv"
	"strings"
)

// ParseMarker parses the flat marker file format: one "key: value" pair per
// line, split on the first colon, whitespace trimmed on both sides.
// Lines without a colon are ignored.
func ParseMarker(data []byte) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}

// RecordFromFields builds a RemoteRecord from parsed marker fields,
// normalizing the historical field-name aliases once at construction:
// older markers use core_id/machine_id where newer ones use hole_id/machine.
// Unparseable numeric fields are dropped, not defaulted to zero; any
// zero-defaulting is a caller decision.
func RecordFromFields(fields map[string]string, holeID, path string) RemoteRecord {
	rec := RemoteRecord{
		HoleID:   holeID,
		Path:     path,
		Quality:  fields["quality"],
		ScanDate: fields["scan_date"],
	}
	if rec.HoleID == "" {
		rec.HoleID = firstOf(fields, "hole_id", "core_id")
	}
	rec.Machine = firstOf(fields, "machine", "machine_id")
	rec.DepthFrom = parseDepth(fields["from_depth"])
	rec.DepthTo = parseDepth(fields["to_depth"])

	for key, value := range fields {
		switch key {
		case "hole_id", "core_id", "machine", "machine_id",
			"from_depth", "to_depth", "quality", "scan_date":
		default:
			if rec.Metadata == nil {
				rec.Metadata = make(map[string]string)
			}
			rec.Metadata[key] = value
		}
	}
	return rec
}

func firstOf(fields map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := fields[key]; v != "" {
			return v
		}
	}
	return ""
}

func parseDepth(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
