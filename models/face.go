package models

import (
	"attendance/db"
)

const (
	// Face crops are stored as raw SampleSize x SampleSize BGR pixels,
	// row-major, 3 bytes per pixel.
	SampleSize  = 50
	SampleBytes = SampleSize * SampleSize * 3
)

type FaceSample struct {
	ID       uint64 `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(300);index"`
	FaceData []byte `gorm:"type:blob"`
}

// TableName overrides the table name
func (FaceSample) TableName() string {
	return "faces"
}

// AddFaceSamples appends all given pixel blobs for one person in a single
// transaction. Nothing is written if any insert fails.
func AddFaceSamples(name string, blobs [][]byte) error {
	samples := make([]FaceSample, 0, len(blobs))
	for _, blob := range blobs {
		samples = append(samples, FaceSample{Name: name, FaceData: blob})
	}
	return db.Instance.Create(&samples).Error
}

// AllFaceSamples returns every stored sample, ordered by insertion.
func AllFaceSamples() ([]FaceSample, error) {
	var samples []FaceSample
	err := db.Instance.Order("id").Find(&samples).Error
	return samples, err
}

// DistinctFaceNames returns the registered names, alphabetically.
func DistinctFaceNames() ([]string, error) {
	var names []string
	err := db.Instance.Model(&FaceSample{}).Distinct("name").Order("name").Pluck("name", &names).Error
	return names, err
}

type FaceSampleCount struct {
	Name    string
	Samples int64
}

// FaceSampleCounts returns per-person sample counts, alphabetically.
func FaceSampleCounts() ([]FaceSampleCount, error) {
	rows, err := db.Instance.Table("faces").
		Select("name, COUNT(*) as samples").
		Group("name").Order("name").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []FaceSampleCount{}
	for rows.Next() {
		current := FaceSampleCount{}
		if err = rows.Scan(&current.Name, &current.Samples); err != nil {
			return nil, err
		}
		result = append(result, current)
	}
	return result, nil
}

// FaceNameExists reports whether at least one sample is stored for the name.
func FaceNameExists(name string) bool {
	var count int64
	db.Instance.Model(&FaceSample{}).Where("name = ?", name).Count(&count)
	return count > 0
}

// FirstFaceSample returns the oldest stored sample for the name.
func FirstFaceSample(name string) (FaceSample, error) {
	var sample FaceSample
	err := db.Instance.Where("name = ?", name).Order("id").First(&sample).Error
	return sample, err
}

// ClearFaceSamples removes every stored sample. There is no per-sample
// delete - registrations are only ever reset wholesale.
func ClearFaceSamples() error {
	return db.Instance.Where("1 = 1").Delete(&FaceSample{}).Error
}
