package utils

import "time"

// LocalOffset is the fixed UTC offset (in seconds) every calendar day is keyed in.
const LocalOffset = 6 * 60 * 60

var localZone = time.FixedZone("UTC+6", LocalOffset)

// LocalZone returns the fixed UTC+6 zone.
func LocalZone() *time.Location {
	return localZone
}

// LocalNow returns the current time in the fixed UTC+6 zone, independent of the
// system timezone.
func LocalNow() time.Time {
	return time.Now().In(localZone)
}

// ToLocal converts t into the fixed local zone.
func ToLocal(t time.Time) time.Time {
	return t.In(localZone)
}
