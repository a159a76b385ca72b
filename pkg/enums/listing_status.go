package enums

import (
	"fmt"
	"strings"
)

// ListingStatus represents the lifecycle state stored in food_listings.status.
type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "Available"
	ListingStatusClaimed   ListingStatus = "Claimed"
	ListingStatusExpired   ListingStatus = "Expired"
)

var validListingStatuses = []ListingStatus{
	ListingStatusAvailable,
	ListingStatusClaimed,
	ListingStatusExpired,
}

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListingStatus.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus. Matching is
// case-insensitive so "available" from a form maps to the stored value.
func ParseListingStatus(value string) (ListingStatus, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validListingStatuses {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}

// ListingStatuses returns the known statuses in display order.
func ListingStatuses() []ListingStatus {
	out := make([]ListingStatus, len(validListingStatuses))
	copy(out, validListingStatuses)
	return out
}

// CanTransitionTo reports whether a listing in status s may move to next.
// Only Available listings change state; Claimed and Expired are terminal.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	if s == next {
		return true
	}
	return s == ListingStatusAvailable && (next == ListingStatusClaimed || next == ListingStatusExpired)
}
