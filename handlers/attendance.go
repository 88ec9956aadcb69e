package handlers

import (
	"net/http"
	"os"

	"attendance/capture"
	"attendance/ledger"

	"github.com/gin-gonic/gin"
)

type AttendanceRow struct {
	Name        string `json:"name"`
	Time        string `json:"time"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	StatusColor string `json:"status_color"`
}

// AttendanceList answers GET /api/attendance, optionally filtered with
// ?date=DD-MM-YYYY. Late status comes from joining the late ledger on
// (name, date).
func AttendanceList(c *gin.Context) {
	var (
		records []ledger.Record
		err     error
	)
	if date := c.Query("date"); date != "" {
		records, err = ledger.Default.RecordsOn(date)
	} else {
		records, err = ledger.Default.Records()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	late, err := ledger.Default.LateRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	isLate := map[[2]string]bool{}
	for _, r := range late {
		isLate[[2]string{r.Name, r.Date}] = true
	}

	result := []AttendanceRow{}
	for _, r := range records {
		row := AttendanceRow{Name: r.Name, Time: r.Time, Date: r.Date, Status: "On Time", StatusColor: "success"}
		if isLate[[2]string{r.Name, r.Date}] {
			row.Status = "Late"
			row.StatusColor = "danger"
		}
		result = append(result, row)
	}
	c.JSON(http.StatusOK, result)
}

// AttendanceStart answers POST /api/attendance/start.
func AttendanceStart(c *gin.Context) {
	id, err := capture.Default.StartAttendance()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance session started", "session_id": id})
}

// AttendanceStop answers POST /api/attendance/stop.
func AttendanceStop(c *gin.Context) {
	if !capture.Default.Running() {
		c.JSON(http.StatusBadRequest, Response{Error: "no camera session is running"})
		return
	}
	capture.Default.Stop()
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Session stop requested"})
}

// SessionStatus answers GET /api/session.
func SessionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, capture.Default.Status())
}

// Export answers GET /api/export with the main ledger as a CSV download.
func Export(c *gin.Context) {
	path := ledger.Default.AttendancePath()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, Response{Error: "no attendance data available"})
		return
	}
	c.FileAttachment(path, ledger.AttendanceFile)
}
