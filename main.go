package main

import (
	"log"
	"os"

	"FuelLog/Api"
	"FuelLog/Constants"
	"FuelLog/Fuel"
	"FuelLog/Models"
	"FuelLog/Session"
	"FuelLog/Travel"
	"FuelLog/Uploads"
	"FuelLog/cli"
	"FuelLog/location"
)

func main() {
	setupLogging()
	Constants.Load()

	db, err := Models.Connect(Constants.CacheDBPath)
	if err != nil {
		log.Fatal("Failed to open cache database:", err)
	}

	session := Session.NewStore(db)
	client := Api.NewClient(Constants.APIBaseURL, Constants.HTTPTimeout, session)
	relay := Uploads.NewRelay(Constants.BucketUploadURL, Constants.UploadPathTag, Constants.MaxImageEdge, Constants.HTTPTimeout)
	drafts := Travel.NewDraftStore(db)
	provider := location.EnvProvider{}

	app := &cli.App{
		Client:  client,
		Session: session,
		Travel:  Travel.NewManager(client, relay, provider, session, drafts, Constants.LocationTimeout),
		Fuel:    Fuel.NewService(client, relay, provider, Constants.LocationTimeout),
	}
	cli.Execute(app)
}

func setupLogging() {
	if os.Getenv("FUELLOG_LOG_FILE") == "" {
		return
	}

	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
