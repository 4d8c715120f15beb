package timezone

import (
	"time"
	_ "time/tzdata"
)

// Location is the timezone of the examination board, scrape timestamps are
// recorded in it so that a run's date matches the date shown on the site.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Helsinki")
	if err != nil {
		panic(err)
	}
}

func Now() time.Time {
	return time.Now().In(Location)
}
