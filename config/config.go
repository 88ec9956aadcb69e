package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS      = "" // e.g. "example.com,example2.com"
	BIND_ADDRESS     = "0.0.0.0:8080"
	MYSQL_DSN        = ""                   // MySQL will be used if this is set
	SQLITE_FILE      = "data/attendance.db" // SQLite will be used if MYSQL_DSN is not configured
	ATTENDANCE_DIR   = "Attendance"         // Where the attendance CSV ledgers live
	BACKUP_DIR       = ""                   // Defaults to ATTENDANCE_DIR if empty
	BACKUP_S3_BUCKET = ""                   // If set, ledger snapshots also go to this S3 bucket
	BACKUP_S3_REGION = "us-east-1"
	BACKUP_S3_PREFIX = "attendance-backups"
	BACKUP_AT        = "23:55" // Daily snapshot time, HH:MM
	DEBUG_MODE       = true

	// Camera / detection
	CAMERA_DEVICE = 0
	CASCADE_FILE  = "haarcascade_frontalface_default.xml"
	FRAME_WIDTH   = 640
	FRAME_HEIGHT  = 480
	SCALE_FACTOR  = 1.1
	MIN_NEIGHBORS = 5
	MIN_FACE_SIZE = 60  // pixels, square
	MAX_FACE_SIZE = 300 // pixels, square
	SHOW_WINDOW   = false

	// Recognition / marking
	CONFIDENCE_THRESHOLD = 100.0 // LBPH distance, lower is a closer match
	COOLDOWN_SECONDS     = 10
	LATE_CUTOFF_HOUR     = 9
	LATE_CUTOFF_MINUTE   = 0

	// Registration
	MIN_SAMPLES  = 20
	MAX_SAMPLES  = 100
	SAMPLE_EVERY = 5 // store every Nth frame with a detected face
)

func init() {
	// Local development keeps settings in a .env file; in deployments the
	// variables come from the environment directly.
	if err := godotenv.Load(); err != nil && DEBUG_MODE {
		log.Println("No .env file found, using environment variables only")
	}

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("ATTENDANCE_DIR", &ATTENDANCE_DIR)
	readEnvString("BACKUP_DIR", &BACKUP_DIR)
	readEnvString("BACKUP_S3_BUCKET", &BACKUP_S3_BUCKET)
	readEnvString("BACKUP_S3_REGION", &BACKUP_S3_REGION)
	readEnvString("BACKUP_S3_PREFIX", &BACKUP_S3_PREFIX)
	readEnvString("BACKUP_AT", &BACKUP_AT)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)

	readEnvInt("CAMERA_DEVICE", &CAMERA_DEVICE)
	readEnvString("CASCADE_FILE", &CASCADE_FILE)
	readEnvInt("FRAME_WIDTH", &FRAME_WIDTH)
	readEnvInt("FRAME_HEIGHT", &FRAME_HEIGHT)
	readEnvFloat("SCALE_FACTOR", &SCALE_FACTOR)
	readEnvInt("MIN_NEIGHBORS", &MIN_NEIGHBORS)
	readEnvInt("MIN_FACE_SIZE", &MIN_FACE_SIZE)
	readEnvInt("MAX_FACE_SIZE", &MAX_FACE_SIZE)
	readEnvBool("SHOW_WINDOW", &SHOW_WINDOW)

	readEnvFloat("CONFIDENCE_THRESHOLD", &CONFIDENCE_THRESHOLD)
	readEnvInt("COOLDOWN_SECONDS", &COOLDOWN_SECONDS)
	readLateCutoff("LATE_CUTOFF")

	readEnvInt("MIN_SAMPLES", &MIN_SAMPLES)
	readEnvInt("MAX_SAMPLES", &MAX_SAMPLES)
	readEnvInt("SAMPLE_EVERY", &SAMPLE_EVERY)

	if BACKUP_DIR == "" {
		BACKUP_DIR = ATTENDANCE_DIR
	}
}

// readLateCutoff parses "HH:MM", e.g. "09:00"
func readLateCutoff(name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		log.Printf("Ignoring invalid %s value %q, expected HH:MM", name, v)
		return
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		log.Printf("Ignoring invalid %s value %q, expected HH:MM", name, v)
		return
	}
	LATE_CUTOFF_HOUR = h
	LATE_CUTOFF_MINUTE = m
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
