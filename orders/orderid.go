package orders

import (
	"strconv"
	"time"

	"voltshop/utils"
)

const orderIDLength = 16

// GenerateOrderID builds a human-readable order id from the current
// date, four random digits, and the reversed millisecond timestamp,
// truncated to a fixed length. The reversed timestamp puts the
// fastest-changing digits first so consecutive orders don't share a
// visible prefix beyond the date.
func GenerateOrderID(now time.Time) string {
	date := now.Format("060102")
	random := utils.GenerateRandomDigitString(4)
	millis := utils.ReverseString(strconv.FormatInt(now.UnixMilli(), 10))

	id := date + random + millis
	if len(id) > orderIDLength {
		id = id[:orderIDLength]
	}
	return id
}
