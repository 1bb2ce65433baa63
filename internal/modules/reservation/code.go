package reservation

import (
	"fmt"
	"math/rand/v2"

	"venuebooking/internal/pkg/timeslot"
)

const codePrefix = "RES"

// randomCode returns RES-<YYYYMMDD>-<NNNN> with a random four-digit suffix.
// Uniqueness is enforced by the store; callers retry on collision.
func randomCode(date timeslot.Date) string {
	return formatCode(date, 1000+rand.IntN(9000))
}

func formatCode(date timeslot.Date, n int) string {
	return fmt.Sprintf("%s-%s-%04d", codePrefix, date.Compact(), n)
}
