package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"attendance/capture"
	"attendance/config"
	"attendance/db"
	"attendance/handlers"
	"attendance/jobs"
	"attendance/ledger"
	"attendance/models"
	"attendance/recognize"
	"attendance/storage"
	"attendance/utils"
	"attendance/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	registerName := flag.String("register", "", "collect face samples for the given name, then exit")
	attend := flag.Bool("attend", false, "run an attendance session in the foreground, then exit")
	reset := flag.Bool("reset", false, "back up and clear the face store and attendance ledgers, then exit")
	flag.Parse()

	db.Init()
	models.Init()
	ledger.Init()
	storage.Init()

	switch {
	case *registerName != "":
		runRegister(*registerName)
	case *attend:
		runAttend()
	case *reset:
		runReset()
	default:
		runServer()
	}
}

// stopOnSignal gives the headless camera flows a stop channel that closes on
// Ctrl-C.
func stopOnSignal() <-chan struct{} {
	stop := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		close(stop)
	}()
	return stop
}

func runRegister(name string) {
	opts := capture.RegisterOptions{
		Options:     capture.OptionsFromConfig(),
		MinSamples:  config.MIN_SAMPLES,
		MaxSamples:  config.MAX_SAMPLES,
		SampleEvery: config.SAMPLE_EVERY,
	}
	count, err := capture.Register(opts, name, stopOnSignal())
	if err != nil {
		log.Fatalf("Registration failed: %v", err)
	}
	fmt.Printf("Registered %s with %d face samples\n", name, count)
}

func runAttend() {
	samples, err := models.AllFaceSamples()
	if err != nil {
		log.Fatalf("Cannot load face samples: %v", err)
	}
	model, err := recognize.Train(samples)
	if err != nil {
		log.Fatalf("Cannot train the recognizer: %v", err)
	}
	session, err := capture.NewSession(capture.OptionsFromConfig(), model, ledger.Default)
	if err != nil {
		log.Fatalf("Cannot open the camera: %v", err)
	}
	defer session.Close()

	stop := stopOnSignal()
	go func() {
		<-stop
		session.Stop()
	}()
	if err = session.Run(); err != nil {
		log.Fatalf("Attendance session failed: %v", err)
	}
}

func runReset() {
	written, err := ledger.Default.Snapshot(time.Now(), storage.Targets())
	if err != nil {
		log.Printf("Ledger backup failed: %v", err)
	}
	if err = models.ClearFaceSamples(); err != nil {
		log.Fatalf("Cannot clear the face store: %v", err)
	}
	if err = ledger.Default.Clear(); err != nil {
		log.Fatalf("Cannot clear the ledgers: %v", err)
	}
	fmt.Printf("Cleared. Backups written: %v\n", written)
}

func runServer() {
	jobs.Init()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/events"})))
	}

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	// Dashboard data
	router.GET("/api/stats", handlers.Stats)
	router.GET("/api/students", handlers.StudentList)
	router.GET("/api/students/:name/thumb", handlers.StudentThumb)
	router.GET("/api/attendance", handlers.AttendanceList)
	router.GET("/api/charts", handlers.Charts)
	router.GET("/api/export", handlers.Export)
	router.GET("/api/events", handlers.EventSocket)
	// Camera control
	router.POST("/api/register", handlers.RegisterStart)
	router.POST("/api/attendance/start", handlers.AttendanceStart)
	router.POST("/api/attendance/stop", handlers.AttendanceStop)
	router.GET("/api/session", handlers.SessionStatus)
	// Admin
	router.POST("/api/clear-database", handlers.ClearDatabase)

	/*
	 *	Web interface
	 */
	router.GET("/", web.DashboardView)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
