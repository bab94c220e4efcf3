// Package interfaces defines core abstractions for the prescription API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"

	"github.com/giygas/mediscript-api/entities"
)

// MedicineStore defines the contract for the medicine catalog.
// Implementations must be safe for concurrent use.
type MedicineStore interface {
	// FindPrice never fails; unknown medicines get a default price
	FindPrice(name, potency string) float64
	List() []entities.Medicine
	Count() int
	Add(input entities.MedicineInput) (entities.Medicine, error)
}

// Recognizer extracts the prescribed medicines from an uploaded image
type Recognizer interface {
	Recognize(ctx context.Context, file entities.FileInfo) (*entities.Recognition, error)
}

// PrescriptionProcessor turns an accepted upload into a priced prescription
type PrescriptionProcessor interface {
	Process(ctx context.Context, file entities.FileInfo) (*entities.PrescriptionResult, error)
}

// UploadValidator is the pre-handler filter for prescription uploads
type UploadValidator interface {
	ValidateUpload(w http.ResponseWriter, r *http.Request) (entities.FileInfo, error)
}

// Scheduler defines the contract for background jobs
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers
type HTTPHandler interface {
	HealthCheck(w http.ResponseWriter, r *http.Request)
	ListMedicines(w http.ResponseWriter, r *http.Request)
	AddMedicine(w http.ResponseWriter, r *http.Request)
	ProcessPrescription(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality
type HealthChecker interface {
	HealthCheck() map[string]any
}

// LogCleaner removes log files older than the retention window
type LogCleaner interface {
	CleanupOldLogs() ([]string, error)
}

// BucketCleaner drops idle per-client rate limit buckets
type BucketCleaner interface {
	Cleanup() int
}
