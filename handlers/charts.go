package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"attendance/ledger"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/stat"
)

type ChartSeries struct {
	X    []string `json:"x"`
	Y    []int    `json:"y"`
	Type string   `json:"type"`
	Name string   `json:"name"`
}

type Chart struct {
	Data   []ChartSeries `json:"data"`
	Layout gin.H         `json:"layout"`
}

type ArrivalStats struct {
	MeanArrival     string  `json:"mean_arrival"`
	StddevMinutes   float64 `json:"stddev_minutes"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

// Charts answers GET /api/charts with the dashboard chart data: attendance
// per day, top attendees, and arrival-time statistics over all records.
func Charts(c *gin.Context) {
	records, err := ledger.Default.Records()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{"error": "No attendance data available"})
		return
	}
	late, err := ledger.Default.LateRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"daily_chart":   dailyChart(records),
		"student_chart": studentChart(records),
		"arrival_stats": arrivalStats(records, late),
	})
}

func dailyChart(records []ledger.Record) Chart {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.Date]++
	}
	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		a, _ := time.Parse(ledger.DateLayout, dates[i])
		b, _ := time.Parse(ledger.DateLayout, dates[j])
		return a.Before(b)
	})
	series := ChartSeries{Type: "bar", Name: "Daily Attendance"}
	for _, date := range dates {
		series.X = append(series.X, date)
		series.Y = append(series.Y, counts[date])
	}
	return Chart{
		Data: []ChartSeries{series},
		Layout: gin.H{
			"title": "Daily Attendance Count",
			"xaxis": gin.H{"title": "Date"},
			"yaxis": gin.H{"title": "Students Present"},
		},
	}
}

func studentChart(records []ledger.Record) Chart {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.Name]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 10 {
		names = names[:10]
	}
	series := ChartSeries{Type: "bar", Name: "Student Attendance"}
	for _, name := range names {
		series.X = append(series.X, name)
		series.Y = append(series.Y, counts[name])
	}
	return Chart{
		Data: []ChartSeries{series},
		Layout: gin.H{
			"title": "Top 10 Students by Attendance",
			"xaxis": gin.H{"title": "Students"},
			"yaxis": gin.H{"title": "Days Present"},
		},
	}
}

// arrivalStats summarizes when people arrive: mean and spread of arrival
// times (seconds since midnight), and the share of on-time marks.
func arrivalStats(records, late []ledger.Record) ArrivalStats {
	seconds := []float64{}
	for _, r := range records {
		t, err := time.Parse(ledger.TimeLayout, r.Time)
		if err != nil {
			continue
		}
		seconds = append(seconds, float64(t.Hour()*3600+t.Minute()*60+t.Second()))
	}
	result := ArrivalStats{MeanArrival: "-"}
	if len(seconds) > 0 {
		mean := stat.Mean(seconds, nil)
		s := int(mean)
		result.MeanArrival = fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
		result.StddevMinutes = stat.StdDev(seconds, nil) / 60
		result.PunctualityRate = 100 * (1 - float64(len(late))/float64(len(records)))
	}
	return result
}
