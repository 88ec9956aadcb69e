package handlers

import (
	"net/http"
	"time"

	"attendance/db"
	"attendance/ledger"
	"attendance/models"

	"github.com/gin-gonic/gin"
)

type StatsResponse struct {
	StudentsRegistered int64 `json:"students_registered"`
	FaceSamples        int64 `json:"face_samples"`
	TodayAttendance    int   `json:"today_attendance"`
	TodayLate          int   `json:"today_late"`
	TotalRecords       int   `json:"total_records"`
	UniqueAttendees    int   `json:"unique_attendees"`
}

// Stats answers GET /api/stats with the dashboard headline numbers.
func Stats(c *gin.Context) {
	result := StatsResponse{}
	db.Instance.Model(&models.FaceSample{}).Distinct("name").Count(&result.StudentsRegistered)
	db.Instance.Model(&models.FaceSample{}).Count(&result.FaceSamples)

	records, err := ledger.Default.Records()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	late, err := ledger.Default.LateRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	today := time.Now().Format(ledger.DateLayout)
	attendees := map[string]bool{}
	for _, r := range records {
		attendees[r.Name] = true
		if r.Date == today {
			result.TodayAttendance++
		}
	}
	for _, r := range late {
		if r.Date == today {
			result.TodayLate++
		}
	}
	result.TotalRecords = len(records)
	result.UniqueAttendees = len(attendees)
	c.JSON(http.StatusOK, result)
}
