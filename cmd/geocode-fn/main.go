package main

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"

	"pitchside/marketplace-backend/internal/geocode"
)

var (
	fnInstance *geocode.Function
	once       sync.Once
)

func init() {
	// "Geocode" is the entry point name configured in the cloud
	// function deployment.
	functions.HTTP("Geocode", handleGeocode)
}

func handleGeocode(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger, _ := zap.NewProduction()
		client := geocode.NewClient(
			os.Getenv("GEOCODING_API_KEY"),
			os.Getenv("GEOCODING_BASE_URL"),
			logger,
		)
		fnInstance = geocode.NewFunction(client, logger)
	})

	fnInstance.Handle(w, r)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}
