package utils

import (
	"fmt"
	"time"
)

var newYork *time.Location

func init() {
	var err error
	newYork, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(fmt.Sprintf("failed to load location America/New_York: %v", err))
	}
}

// NewYork returns the exchange time zone. All scheduling decisions are made in ET.
func NewYork() *time.Location {
	return newYork
}

// ConvertToMarketClose pins a date to the 4:00pm ET equity close on that
// calendar day. The date's own year, month and day are used so a midnight
// UTC expiration does not slide back a day when shifted to ET.
func ConvertToMarketClose(date time.Time) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("ConvertToMarketClose: date is zero")
	}

	return time.Date(date.Year(), date.Month(), date.Day(), 16, 0, 0, 0, newYork), nil
}

func IsSameDate(a, b time.Time, loc *time.Location) bool {
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()

	return y1 == y2 && m1 == m2 && d1 == d2
}
