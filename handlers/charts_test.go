package handlers

import (
	"fmt"
	"testing"

	"attendance/ledger"
)

func TestDailyChartOrdersByDate(t *testing.T) {
	records := []ledger.Record{
		{Name: "Alice", Time: "08:30:00", Date: "02-01-2026"},
		{Name: "Bob", Time: "08:45:00", Date: "30-12-2025"},
		{Name: "Carol", Time: "09:10:00", Date: "02-01-2026"},
	}
	chart := dailyChart(records)
	if len(chart.Data) != 1 {
		t.Fatalf("expected one series, got %d", len(chart.Data))
	}
	series := chart.Data[0]
	wantX := []string{"30-12-2025", "02-01-2026"}
	wantY := []int{1, 2}
	if len(series.X) != len(wantX) {
		t.Fatalf("expected %d points, got %d", len(wantX), len(series.X))
	}
	for i := range wantX {
		if series.X[i] != wantX[i] || series.Y[i] != wantY[i] {
			t.Errorf("point %d: got (%s, %d), want (%s, %d)", i, series.X[i], series.Y[i], wantX[i], wantY[i])
		}
	}
}

func TestStudentChartKeepsTopTen(t *testing.T) {
	records := []ledger.Record{}
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("Student%02d", i)
		for day := 0; day <= i; day++ {
			records = append(records, ledger.Record{
				Name: name,
				Time: "08:00:00",
				Date: fmt.Sprintf("%02d-01-2026", day+1),
			})
		}
	}
	series := studentChart(records).Data[0]
	if len(series.X) != 10 {
		t.Fatalf("expected 10 students, got %d", len(series.X))
	}
	if series.X[0] != "Student11" || series.Y[0] != 12 {
		t.Errorf("expected Student11 with 12 days first, got %s with %d", series.X[0], series.Y[0])
	}
	for _, name := range series.X {
		if name == "Student00" || name == "Student01" {
			t.Errorf("%s should have been cut from the top 10", name)
		}
	}
}

func TestArrivalStats(t *testing.T) {
	records := []ledger.Record{
		{Name: "Alice", Time: "08:00:00", Date: "02-01-2026"},
		{Name: "Bob", Time: "10:00:00", Date: "02-01-2026"},
	}
	late := []ledger.Record{
		{Name: "Bob", Time: "10:00:00", Date: "02-01-2026"},
	}
	stats := arrivalStats(records, late)
	if stats.MeanArrival != "09:00:00" {
		t.Errorf("expected mean arrival 09:00:00, got %s", stats.MeanArrival)
	}
	if stats.PunctualityRate != 50 {
		t.Errorf("expected punctuality 50, got %v", stats.PunctualityRate)
	}
	if stats.StddevMinutes <= 0 {
		t.Errorf("expected positive stddev, got %v", stats.StddevMinutes)
	}
}

func TestArrivalStatsEmpty(t *testing.T) {
	stats := arrivalStats(nil, nil)
	if stats.MeanArrival != "-" {
		t.Errorf("expected placeholder mean for no data, got %s", stats.MeanArrival)
	}
}
