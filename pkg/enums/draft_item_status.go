package enums

import "fmt"

// DraftItemStatus tracks how far a draft line item got through product resolution.
type DraftItemStatus string

const (
	DraftItemStatusUnmatched DraftItemStatus = "unmatched"
	DraftItemStatusMatched   DraftItemStatus = "matched"
	DraftItemStatusConfirmed DraftItemStatus = "confirmed"
)

var validDraftItemStatuses = []DraftItemStatus{
	DraftItemStatusUnmatched,
	DraftItemStatusMatched,
	DraftItemStatusConfirmed,
}

// String implements fmt.Stringer.
func (s DraftItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DraftItemStatus.
func (s DraftItemStatus) IsValid() bool {
	for _, candidate := range validDraftItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive reports whether an item in this status counts toward duplicate
// detection, i.e. it already references a resolved product in the draft.
func (s DraftItemStatus) IsActive() bool {
	return s == DraftItemStatusMatched || s == DraftItemStatusConfirmed
}

// ParseDraftItemStatus converts raw input into a DraftItemStatus.
func ParseDraftItemStatus(value string) (DraftItemStatus, error) {
	for _, candidate := range validDraftItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid draft item status %q", value)
}
