package stats

import (
	"fmt"
	"testing"

	"github.com/asodergren/korjournal/internal/db"
)

func TestAggregate_Totals(t *testing.T) {
	rows := []db.StatRow{
		{Category: "Privat", StartDate: "2024-01-05", Distance: 100, FuelConsumption: "5,0 l", BatteryConsumption: "2 kWh", BatteryRegeneration: "0,5 kWh"},
		{Category: "Arbete", StartDate: "2024-01-20", Distance: 100, FuelConsumption: "7 l", BatteryConsumption: "0 kWh", BatteryRegeneration: "0 kWh"},
	}

	report := Aggregate(rows)

	if report.TotalTrips != 2 {
		t.Errorf("TotalTrips = %d, want 2", report.TotalTrips)
	}
	if report.TotalDistance != 200 {
		t.Errorf("TotalDistance = %v, want 200", report.TotalDistance)
	}
	if report.TotalFuel != 12 {
		t.Errorf("TotalFuel = %v, want 12", report.TotalFuel)
	}
	if report.TotalElectric != 2 {
		t.Errorf("TotalElectric = %v, want 2", report.TotalElectric)
	}
	if report.TotalRegenerated != 0.5 {
		t.Errorf("TotalRegenerated = %v, want 0.5", report.TotalRegenerated)
	}
	if report.FuelPer100Km != 6 {
		t.Errorf("FuelPer100Km = %v, want 6", report.FuelPer100Km)
	}
	if report.ElectricPer100Km != 1 {
		t.Errorf("ElectricPer100Km = %v, want 1", report.ElectricPer100Km)
	}
}

func TestAggregate_ZeroDistanceAverages(t *testing.T) {
	rows := []db.StatRow{
		{Category: "Privat", StartDate: "2024-01-05", Distance: 0, FuelConsumption: "1 l"},
	}

	report := Aggregate(rows)
	if report.FuelPer100Km != 0 || report.ElectricPer100Km != 0 {
		t.Errorf("per-100km averages = %v/%v, want 0/0 when distance is zero",
			report.FuelPer100Km, report.ElectricPer100Km)
	}
}

func TestAggregate_CategoryOrdering(t *testing.T) {
	rows := []db.StatRow{
		{Category: "Privat", StartDate: "2024-01-01", Distance: 50},
		{Category: "Arbete", StartDate: "2024-01-02", Distance: 200},
		{Category: "Okategoriserat", StartDate: "2024-01-03", Distance: 120},
		{Category: "Privat", StartDate: "2024-01-04", Distance: 30},
	}

	report := Aggregate(rows)
	if len(report.ByCategory) != 3 {
		t.Fatalf("len(ByCategory) = %d, want 3", len(report.ByCategory))
	}

	// Descending by distance
	want := []string{"Arbete", "Okategoriserat", "Privat"}
	for i, c := range report.ByCategory {
		if c.Category != want[i] {
			t.Errorf("ByCategory[%d] = %q, want %q", i, c.Category, want[i])
		}
	}
	if report.ByCategory[2].Trips != 2 || report.ByCategory[2].Distance != 80 {
		t.Errorf("Privat = %d trips / %v km, want 2 / 80",
			report.ByCategory[2].Trips, report.ByCategory[2].Distance)
	}
}

func TestAggregate_MonthWindow(t *testing.T) {
	// 15 months of trips; only the latest 12 appear, newest first
	var rows []db.StatRow
	for m := 1; m <= 15; m++ {
		rows = append(rows, db.StatRow{
			Category:  "Privat",
			StartDate: fmt.Sprintf("2023-%02d-10", (m-1)%12+1),
			Distance:  10,
		})
	}
	rows = append(rows,
		db.StatRow{Category: "Privat", StartDate: "2024-01-10", Distance: 10},
		db.StatRow{Category: "Privat", StartDate: "2024-02-10", Distance: 10},
		db.StatRow{Category: "Privat", StartDate: "2024-03-10", Distance: 10},
	)

	report := Aggregate(rows)
	if len(report.ByMonth) != 12 {
		t.Fatalf("len(ByMonth) = %d, want 12", len(report.ByMonth))
	}
	if report.ByMonth[0].Month != "2024-03" {
		t.Errorf("ByMonth[0] = %q, want 2024-03", report.ByMonth[0].Month)
	}
	for i := 1; i < len(report.ByMonth); i++ {
		if report.ByMonth[i-1].Month <= report.ByMonth[i].Month {
			t.Errorf("ByMonth not descending at %d: %q then %q",
				i, report.ByMonth[i-1].Month, report.ByMonth[i].Month)
		}
	}
}

func TestAggregate_UnparsableDateExcludedFromMonths(t *testing.T) {
	rows := []db.StatRow{
		{Category: "Privat", StartDate: "sometime", Distance: 10},
		{Category: "Privat", StartDate: "2024-05-01", Distance: 10},
	}

	report := Aggregate(rows)
	if report.TotalTrips != 2 {
		t.Errorf("TotalTrips = %d, want 2 (totals include all rows)", report.TotalTrips)
	}
	if len(report.ByMonth) != 1 {
		t.Fatalf("len(ByMonth) = %d, want 1", len(report.ByMonth))
	}
	if report.ByMonth[0].Month != "2024-05" {
		t.Errorf("ByMonth[0] = %q, want 2024-05", report.ByMonth[0].Month)
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil)
	if report.TotalTrips != 0 {
		t.Errorf("TotalTrips = %d, want 0", report.TotalTrips)
	}
	if len(report.ByCategory) != 0 || len(report.ByMonth) != 0 {
		t.Errorf("breakdowns not empty: %d categories, %d months",
			len(report.ByCategory), len(report.ByMonth))
	}
}
