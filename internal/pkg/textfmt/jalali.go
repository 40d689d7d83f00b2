package textfmt

import (
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// JalaliDate formats t as yyyy/MM/dd in the Solar Hijri calendar, using the
// calendar day of t's own location.
func JalaliDate(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd")
}

// ExpiryDate renders a unix expiry, or ∞ when the account never expires.
func ExpiryDate(expire *int64, loc *time.Location) string {
	if expire == nil || *expire == 0 {
		return "∞"
	}
	return JalaliDate(time.Unix(*expire, 0).In(loc))
}

// Tehran is Iran Standard Time, a fixed +03:30 with no daylight saving since 2022.
var Tehran = time.FixedZone("Asia/Tehran", 3*3600+30*60)
