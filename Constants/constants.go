package Constants

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Runtime configuration. Load() reads .env (if present) and environment
// overrides once at startup; everything else reads these variables.
var (
	APIBaseURL      = "https://gis-lab-eco-tourism.vercel.app/fuel-app/api"
	BucketUploadURL = "https://cms-dev.gisforestry.com/backend/upload/new"

	// Destination-path tag attached to every bucket upload.
	UploadPathTag = "DriverAPP"

	CacheDBPath = "fuellog.db"

	HTTPTimeout     = 30 * time.Second
	LocationTimeout = 12 * time.Second

	// Default page size used by the list endpoints.
	PerPage = 10

	// Largest edge (px) kept when downscaling captured photos before upload.
	MaxImageEdge = 1600
)

// Vehicles is the fixed fleet selectable on the fueling form.
var Vehicles = []string{"SLJ-1112", "SAJ-321", "LEG-2106", "GBF-848", "Hiace APL-2025"}

func Load() {
	if err := godotenv.Load(".env"); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}
	}

	if v := os.Getenv("FUELLOG_API_BASE"); v != "" {
		APIBaseURL = v
	}
	if v := os.Getenv("FUELLOG_BUCKET_URL"); v != "" {
		BucketUploadURL = v
	}
	if v := os.Getenv("FUELLOG_UPLOAD_PATH"); v != "" {
		UploadPathTag = v
	}
	if v := os.Getenv("FUELLOG_CACHE_DB"); v != "" {
		CacheDBPath = v
	}
	if v := os.Getenv("FUELLOG_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			HTTPTimeout = d
		} else {
			log.Printf("Invalid FUELLOG_HTTP_TIMEOUT %q: %v", v, err)
		}
	}
	if v := os.Getenv("FUELLOG_LOCATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			LocationTimeout = d
		} else {
			log.Printf("Invalid FUELLOG_LOCATION_TIMEOUT %q: %v", v, err)
		}
	}
	if v := os.Getenv("FUELLOG_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			PerPage = n
		}
	}
}

// KnownVehicle reports whether plate is part of the configured fleet.
func KnownVehicle(plate string) bool {
	for _, v := range Vehicles {
		if v == plate {
			return true
		}
	}
	return false
}
