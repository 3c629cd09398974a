// Package stats computes read-only aggregate views over the trip store:
// overall totals, per-100km averages, and breakdowns by category and by
// calendar month. It holds no state of its own.
package stats

import (
	"regexp"
	"sort"

	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/trip"
)

// monthRegex extracts the "YYYY-MM" prefix of an exported start date.
var monthRegex = regexp.MustCompile(`^(\d{4}-\d{2})`)

// Report is the full statistics view for a filtered set of trips.
type Report struct {
	// TotalTrips is the number of trips in the set
	TotalTrips int `json:"total_trips"`

	// TotalDistance is the summed distance in km
	TotalDistance float64 `json:"total_distance"`

	// TotalFuel is the summed fuel consumption in litres, parsed from the
	// unit-suffixed magnitude strings
	TotalFuel float64 `json:"total_fuel"`

	// TotalElectric is the summed battery consumption in kWh
	TotalElectric float64 `json:"total_electric"`

	// TotalRegenerated is the summed battery regeneration in kWh
	TotalRegenerated float64 `json:"total_regenerated"`

	// FuelPer100Km is litres per 100 km (0 when no distance)
	FuelPer100Km float64 `json:"fuel_per_100km"`

	// ElectricPer100Km is kWh per 100 km (0 when no distance)
	ElectricPer100Km float64 `json:"electric_per_100km"`

	// ByCategory breaks the set down per category, ordered by
	// descending distance
	ByCategory []CategoryStats `json:"by_category"`

	// ByMonth breaks the set down per calendar month, most recent 12
	// months, descending
	ByMonth []MonthStats `json:"by_month"`
}

// CategoryStats is one category's share of the set.
type CategoryStats struct {
	Category string  `json:"category"`
	Trips    int     `json:"trips"`
	Distance float64 `json:"distance"`
	Fuel     float64 `json:"fuel"`
	Electric float64 `json:"electric"`
}

// MonthStats is one calendar month's share of the set.
type MonthStats struct {
	// Month is the "YYYY-MM" key
	Month    string  `json:"month"`
	Trips    int     `json:"trips"`
	Distance float64 `json:"distance"`
	Fuel     float64 `json:"fuel"`
	Electric float64 `json:"electric"`
}

// monthWindow is how many months the by-month breakdown covers.
const monthWindow = 12

// Aggregate folds statistics rows into a Report. Consumption magnitudes
// are interpreted once via trip.ParseAmount; the store keeps them as the
// exported strings.
func Aggregate(rows []db.StatRow) *Report {
	report := &Report{}

	byCategory := make(map[string]*CategoryStats)
	byMonth := make(map[string]*MonthStats)

	for _, row := range rows {
		fuel := trip.ParseAmount(row.FuelConsumption)
		electric := trip.ParseAmount(row.BatteryConsumption)
		regen := trip.ParseAmount(row.BatteryRegeneration)

		report.TotalTrips++
		report.TotalDistance += row.Distance
		report.TotalFuel += fuel
		report.TotalElectric += electric
		report.TotalRegenerated += regen

		c, ok := byCategory[row.Category]
		if !ok {
			c = &CategoryStats{Category: row.Category}
			byCategory[row.Category] = c
		}
		c.Trips++
		c.Distance += row.Distance
		c.Fuel += fuel
		c.Electric += electric

		if month := monthKey(row.StartDate); month != "" {
			m, ok := byMonth[month]
			if !ok {
				m = &MonthStats{Month: month}
				byMonth[month] = m
			}
			m.Trips++
			m.Distance += row.Distance
			m.Fuel += fuel
			m.Electric += electric
		}
	}

	if report.TotalDistance > 0 {
		report.FuelPer100Km = report.TotalFuel / report.TotalDistance * 100
		report.ElectricPer100Km = report.TotalElectric / report.TotalDistance * 100
	}

	report.ByCategory = sortCategories(byCategory)
	report.ByMonth = sortMonths(byMonth)

	return report
}

// monthKey extracts the "YYYY-MM" calendar month from an exported start
// date, or "" when the date is not recognizably ISO-formatted.
func monthKey(startDate string) string {
	m := monthRegex.FindStringSubmatch(startDate)
	if m == nil {
		return ""
	}
	return m[1]
}

// sortCategories orders categories by descending distance.
func sortCategories(byCategory map[string]*CategoryStats) []CategoryStats {
	result := make([]CategoryStats, 0, len(byCategory))
	for _, c := range byCategory {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Distance != result[j].Distance {
			return result[i].Distance > result[j].Distance
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// sortMonths orders months descending and keeps the most recent window.
func sortMonths(byMonth map[string]*MonthStats) []MonthStats {
	result := make([]MonthStats, 0, len(byMonth))
	for _, m := range byMonth {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month > result[j].Month
	})
	if len(result) > monthWindow {
		result = result[:monthWindow]
	}
	return result
}
