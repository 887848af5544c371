package checkout

import (
	"fmt"
	"time"
)

// weekdayLabels is indexed with weekday-1. Sunday never reaches the table
// because Sundays are not offered.
var weekdayLabels = [...]string{"月", "火", "水", "木", "金", "土"}

const (
	firstDeliveryOffset = 2
	lastDeliveryOffset  = 7
)

type DeliveryDate struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type TimeSlot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var timeSlots = []TimeSlot{
	{Value: "morning", Label: "午前中 (8-12時)"},
	{Value: "afternoon", Label: "14-16時"},
	{Value: "evening", Label: "16-18時"},
	{Value: "night", Label: "18-21時"},
}

// DeliveryDates lists offsets 2..7 from today, Sundays excluded. Values are
// YYYY-MM-DD in today's location.
func DeliveryDates(today time.Time) []DeliveryDate {
	y, m, d := today.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	dates := make([]DeliveryDate, 0, lastDeliveryOffset-firstDeliveryOffset+1)
	for offset := firstDeliveryOffset; offset <= lastDeliveryOffset; offset++ {
		day := base.AddDate(0, 0, offset)
		if day.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, DeliveryDate{
			Value: day.Format(time.DateOnly),
			Label: fmt.Sprintf("%d月%d日 (%s)", int(day.Month()), day.Day(), weekdayLabels[int(day.Weekday())-1]),
		})
	}
	return dates
}

func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// DeliveryOptions is what the delivery step renders.
type DeliveryOptions struct {
	Dates     []DeliveryDate `json:"dates"`
	TimeSlots []TimeSlot     `json:"timeSlots"`
}

func NewDeliveryOptions(today time.Time) DeliveryOptions {
	return DeliveryOptions{Dates: DeliveryDates(today), TimeSlots: TimeSlots()}
}
