package wishlist

import (
	"fmt"
	"time"
)

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
	BannerJobs    BannerKind = "jobs"
)

func (k BannerKind) Valid() bool {
	switch k {
	case BannerSuccess, BannerError, BannerJobs:
		return true
	}
	return false
}

const (
	msgGenerateFailed = "Failed to generate wishlist. Please try again."
	msgJobsFailed     = "Could not load job roles right now."
)

func successMessage(n int) string {
	return fmt.Sprintf("Successfully generated wishlist with %d companies!", n)
}

// Banner is a dismissible status message shown above the wishlist.
type Banner struct {
	Kind      BannerKind `json:"kind"`
	Message   string     `json:"message"`
	ShownAt   time.Time  `json:"shownAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

func (b Banner) Expired(now time.Time) bool {
	return !now.Before(b.ExpiresAt)
}
