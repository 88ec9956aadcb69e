// Package web serves the browser dashboard.
package web

import (
	"net/http"
	"time"

	"attendance/capture"
	"attendance/ledger"
	"attendance/models"

	"github.com/gin-gonic/gin"
)

// DashboardView renders the single-page dashboard. Live data is filled in
// over the JSON API and the event websocket; the template only needs the
// initial headline numbers.
func DashboardView(c *gin.Context) {
	today := time.Now().Format(ledger.DateLayout)
	students, err := models.DistinctFaceNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	present, err := ledger.Default.RecordsOn(today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"title":        "Face Attendance",
		"date":         today,
		"students":     len(students),
		"presentToday": len(present),
		"session":      capture.Default.Status(),
	})
}
