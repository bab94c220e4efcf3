// Package prescription turns an accepted prescription upload into priced
// medicines, billing totals and advisory text. Recognition is mocked: every
// image yields the same three medicines, priced against the live catalog.
package prescription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/giygas/mediscript-api/entities"
	"github.com/giygas/mediscript-api/interfaces"
	"github.com/giygas/mediscript-api/logging"
	"github.com/google/uuid"
)

var _ interfaces.PrescriptionProcessor = (*Processor)(nil)

// insightSeparator joins advisory lines; the frontend renders the text as HTML
const insightSeparator = "<br>"

var advisoryLines = []string{
	"• Augmentin is an antibiotic combination. Complete the full course even if symptoms improve.",
	"• Enzoflam is an anti-inflammatory. Take with food to avoid stomach irritation.",
	"• Panadol (Paracetamol) helps with pain and fever. Do not exceed recommended dosage.",
	"• Take all medications as prescribed by your doctor.",
	"• Drink plenty of water and get adequate rest.",
	"• Contact your doctor if you experience any unusual side effects.",
	"• This appears to be a comprehensive treatment for infection with pain/inflammation management.",
}

// Processor prices recognised prescriptions against the medicine catalog
type Processor struct {
	store      interfaces.MedicineStore
	recognizer interfaces.Recognizer
	delay      time.Duration
	now        func() time.Time
	newID      func() string
}

// NewProcessor creates a processor. A nil recognizer means MockRecognizer.
func NewProcessor(store interfaces.MedicineStore, recognizer interfaces.Recognizer, delay time.Duration) *Processor {
	if recognizer == nil {
		recognizer = MockRecognizer{}
	}
	return &Processor{
		store:      store,
		recognizer: recognizer,
		delay:      delay,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Process waits out the simulated latency, recognises the prescription and prices it.
// A client disconnect does not cut the work short; the delay always runs to completion.
func (p *Processor) Process(ctx context.Context, file entities.FileInfo) (*entities.PrescriptionResult, error) {
	ctx = context.WithoutCancel(ctx)

	processingID := p.newID()
	logging.Info("Processing prescription image",
		"processing_id", processingID,
		"filename", file.Filename,
		"size_bytes", file.Size,
		"mime_type", file.MimeType,
	)

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	rec, err := p.recognizer.Recognize(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	result, err := BuildResult(rec, file, p.store.FindPrice)
	if err != nil {
		return nil, err
	}

	result.ProcessingInfo.ProcessedAt = p.now().UTC().Format("2006-01-02T15:04:05.000Z")
	result.ProcessingInfo.ProcessingID = processingID

	logging.Debug("Prescription priced",
		"processing_id", processingID,
		"medicines", len(result.Medicines),
		"total", result.Billing.Total,
	)

	return result, nil
}

// BuildResult prices a recognition with the given lookup. It has no side effects
// and leaves the processing timestamp and id for the caller.
func BuildResult(rec *entities.Recognition, file entities.FileInfo, priceOf func(name, potency string) float64) (*entities.PrescriptionResult, error) {
	medicines := make([]entities.PrescriptionMedicine, 0, len(rec.Medicines))
	prices := make([]float64, 0, len(rec.Medicines))

	for _, m := range rec.Medicines {
		price := priceOf(m.Name, m.Potency)
		medicines = append(medicines, entities.PrescriptionMedicine{
			Name:      m.Name,
			Potency:   m.Potency,
			Frequency: m.Frequency,
			Duration:  m.Duration,
			Price:     price,
		})
		prices = append(prices, price)
	}

	billing, err := ComputeBilling(prices)
	if err != nil {
		return nil, fmt.Errorf("billing failed: %w", err)
	}

	return &entities.PrescriptionResult{
		PatientName:    rec.PatientName,
		PatientAge:     rec.PatientAge,
		Date:           rec.Date,
		PrescriptionID: rec.PrescriptionID,
		Medicines:      medicines,
		Billing:        billing,
		AIInsights:     GenerateInsights(medicines),
		ProcessingInfo: entities.ProcessingInfo{
			ImageSize: file.Size,
			MimeType:  file.MimeType,
		},
	}, nil
}

// GenerateInsights returns the advisory text for a prescription.
// The text is fixed; it does not depend on the medicines yet.
func GenerateInsights(_ []entities.PrescriptionMedicine) string {
	return strings.Join(advisoryLines, insightSeparator)
}
