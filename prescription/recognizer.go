package prescription

import (
	"context"

	"github.com/giygas/mediscript-api/entities"
	"github.com/giygas/mediscript-api/interfaces"
)

var _ interfaces.Recognizer = MockRecognizer{}

const twiceDaily = "Twice daily (Morning & Evening)"

// MockPrescription is returned for every upload until a real OCR backend exists
var MockPrescription = entities.Recognition{
	PatientName:    "Mr. Sachin Sansar",
	PatientAge:     "28 years",
	Date:           "12/12/2022",
	PrescriptionID: "RX-2022-1212",
	Medicines: []entities.PrescribedMedicine{
		{Name: "Augmentin", Potency: "625mg", Frequency: twiceDaily, Duration: "5 days"},
		{Name: "Enzoflam", Potency: "1tablet", Frequency: twiceDaily, Duration: "5 days"},
		{Name: "Panadol", Potency: "40mg", Frequency: twiceDaily, Duration: "5 days"},
	},
}

// MockRecognizer ignores the image and returns MockPrescription
type MockRecognizer struct{}

func (MockRecognizer) Recognize(ctx context.Context, _ entities.FileInfo) (*entities.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := MockPrescription
	rec.Medicines = append([]entities.PrescribedMedicine(nil), MockPrescription.Medicines...)
	return &rec, nil
}
