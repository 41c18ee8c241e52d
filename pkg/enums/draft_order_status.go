package enums

import "fmt"

// DraftOrderStatus tracks whether a draft is still editable or already dispatched.
type DraftOrderStatus string

const (
	DraftOrderStatusDraft DraftOrderStatus = "draft"
	DraftOrderStatusSent  DraftOrderStatus = "sent"
)

var validDraftOrderStatuses = []DraftOrderStatus{
	DraftOrderStatusDraft,
	DraftOrderStatusSent,
}

// String implements fmt.Stringer.
func (s DraftOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DraftOrderStatus.
func (s DraftOrderStatus) IsValid() bool {
	for _, candidate := range validDraftOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDraftOrderStatus converts raw input into a DraftOrderStatus.
func ParseDraftOrderStatus(value string) (DraftOrderStatus, error) {
	for _, candidate := range validDraftOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid draft order status %q", value)
}
