package weather

import (
	"time"

	"weathercheck/internal/models"
)

// maxForecastDays caps the number of daily buckets surfaced to the UI.
const maxForecastDays = 5

// AggregateDaily groups raw 3-hour forecast entries by calendar date and
// reduces each day to its mean temperature, mean humidity, and most frequent
// description and icon. Dates are derived in loc (nil means time.Local).
//
// Days appear in the order they are first encountered, which for this
// provider is chronological; only the first maxForecastDays distinct dates
// are kept. Frequency ties are broken by the earlier entry in provider order,
// so the result is deterministic for a fixed input sequence.
func AggregateDaily(entries []ForecastEntry, loc *time.Location) []models.ForecastBucket {
	if loc == nil {
		loc = time.Local
	}

	type dayAgg struct {
		date         time.Time
		tempSum      float64
		humiditySum  float64
		count        int
		descriptions *frequencyCounter
		icons        *frequencyCounter
	}

	var order []string
	days := make(map[string]*dayAgg)

	for _, entry := range entries {
		local := entry.Time.In(loc)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		key := date.Format("2006-01-02")

		agg, ok := days[key]
		if !ok {
			if len(order) >= maxForecastDays {
				continue
			}
			agg = &dayAgg{
				date:         date,
				descriptions: newFrequencyCounter(),
				icons:        newFrequencyCounter(),
			}
			days[key] = agg
			order = append(order, key)
		}

		agg.tempSum += entry.Temp
		agg.humiditySum += float64(entry.Humidity)
		agg.count++
		agg.descriptions.add(entry.Description)
		agg.icons.add(entry.Icon)
	}

	buckets := make([]models.ForecastBucket, 0, len(order))
	for _, key := range order {
		agg := days[key]
		buckets = append(buckets, models.ForecastBucket{
			Date:        agg.date,
			AvgTemp:     agg.tempSum / float64(agg.count),
			AvgHumidity: agg.humiditySum / float64(agg.count),
			Description: agg.descriptions.mostFrequent(),
			Icon:        agg.icons.mostFrequent(),
		})
	}
	return buckets
}

// frequencyCounter counts string occurrences while remembering insertion
// order, so mostFrequent breaks ties in favor of the first value seen.
type frequencyCounter struct {
	counts map[string]int
	first  map[string]int
	next   int
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{
		counts: make(map[string]int),
		first:  make(map[string]int),
	}
}

func (f *frequencyCounter) add(value string) {
	if _, seen := f.counts[value]; !seen {
		f.first[value] = f.next
	}
	f.counts[value]++
	f.next++
}

func (f *frequencyCounter) mostFrequent() string {
	best := ""
	bestCount := -1
	bestFirst := 0
	for value, count := range f.counts {
		if count > bestCount || (count == bestCount && f.first[value] < bestFirst) {
			best = value
			bestCount = count
			bestFirst = f.first[value]
		}
	}
	return best
}
