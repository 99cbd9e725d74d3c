package services

import "time"

// nowUTC is the single clock used for persisted timestamps
func nowUTC() time.Time {
	return time.Now().UTC()
}
