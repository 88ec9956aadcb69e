package handlers

import (
	"net/http"

	"attendance/ledger"
	"attendance/models"
	"attendance/utils"

	"github.com/gin-gonic/gin"
)

const thumbSize = 100

type StudentInfo struct {
	Name     string `json:"name"`
	Samples  int64  `json:"samples"`
	LastSeen string `json:"last_seen"`
}

// StudentList answers GET /api/students with per-person sample counts and
// the date each person was last marked present.
func StudentList(c *gin.Context) {
	counts, err := models.FaceSampleCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	records, err := ledger.Default.Records()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	lastSeen := map[string]string{}
	for _, r := range records {
		lastSeen[r.Name] = r.Date // records are in file order, last write wins
	}

	result := []StudentInfo{}
	for _, count := range counts {
		info := StudentInfo{Name: count.Name, Samples: count.Samples, LastSeen: "Never"}
		if date, ok := lastSeen[count.Name]; ok {
			info.LastSeen = date
		}
		result = append(result, info)
	}
	c.JSON(http.StatusOK, result)
}

// StudentThumb answers GET /api/students/:name/thumb with a PNG preview
// rendered from the person's oldest stored face sample.
func StudentThumb(c *gin.Context) {
	name := c.Param("name")
	sample, err := models.FirstFaceSample(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no samples for " + name})
		return
	}
	thumb, err := utils.FaceThumbnail(sample.FaceData, models.SampleSize, thumbSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", thumb)
}
