package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestDeliveryDates_FromFriday(t *testing.T) {
	friday := time.Date(2026, 10, 16, 9, 0, 0, 0, jst)

	dates := DeliveryDates(friday)

	require.Len(t, dates, 5)
	assert.Equal(t, []DeliveryDate{
		{Value: "2026-10-19", Label: "10月19日 (月)"},
		{Value: "2026-10-20", Label: "10月20日 (火)"},
		{Value: "2026-10-21", Label: "10月21日 (水)"},
		{Value: "2026-10-22", Label: "10月22日 (木)"},
		{Value: "2026-10-23", Label: "10月23日 (金)"},
	}, dates)
}

func TestDeliveryDates_FromWednesday(t *testing.T) {
	wednesday := time.Date(2026, 10, 14, 18, 0, 0, 0, jst)

	dates := DeliveryDates(wednesday)

	values := make([]string, 0, len(dates))
	for _, d := range dates {
		values = append(values, d.Value)
	}
	assert.Equal(t, []string{"2026-10-16", "2026-10-17", "2026-10-19", "2026-10-20", "2026-10-21"}, values)
	assert.Equal(t, "10月17日 (土)", dates[1].Label)
}

func TestDeliveryDates_NeverSunday(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, jst)
	for i := 0; i < 14; i++ {
		today := start.AddDate(0, 0, i)
		dates := DeliveryDates(today)

		sundays := 0
		for offset := 2; offset <= 7; offset++ {
			if today.AddDate(0, 0, offset).Weekday() == time.Sunday {
				sundays++
			}
		}
		assert.Len(t, dates, 6-sundays, "today=%s", today.Format(time.DateOnly))
		for _, d := range dates {
			day, err := time.ParseInLocation(time.DateOnly, d.Value, jst)
			require.NoError(t, err)
			assert.NotEqual(t, time.Sunday, day.Weekday())
		}
	}
}

func TestDeliveryDates_UsesTodaysLocation(t *testing.T) {
	// 00:30 JST is still the previous day in UTC.
	today := time.Date(2026, 10, 15, 0, 30, 0, 0, jst)

	dates := DeliveryDates(today)

	require.NotEmpty(t, dates)
	assert.Equal(t, "2026-10-17", dates[0].Value)
}

func TestDeliveryDates_MonthBoundary(t *testing.T) {
	today := time.Date(2026, 12, 29, 9, 0, 0, 0, jst)

	dates := DeliveryDates(today)

	require.NotEmpty(t, dates)
	assert.Equal(t, "2026-12-31", dates[0].Value)
	assert.Equal(t, "1月2日 (土)", dates[2].Label)
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()

	require.Len(t, slots, 4)
	assert.Equal(t, TimeSlot{Value: "morning", Label: "午前中 (8-12時)"}, slots[0])
	assert.Equal(t, "night", slots[3].Value)

	slots[0].Label = "changed"
	assert.Equal(t, "午前中 (8-12時)", TimeSlots()[0].Label)
}
