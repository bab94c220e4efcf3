package entities

// FileInfo describes an accepted upload. The image bytes are never inspected.
type FileInfo struct {
	Filename string
	MimeType string
	Size     int64
}

// PrescribedMedicine is a medicine line recognised on a prescription, before pricing
type PrescribedMedicine struct {
	Name      string
	Potency   string
	Frequency string
	Duration  string
}

// PrescriptionMedicine is a priced medicine line in a prescription result
type PrescriptionMedicine struct {
	Name      string  `json:"name"`
	Potency   string  `json:"potency"`
	Frequency string  `json:"frequency"`
	Duration  string  `json:"duration"`
	Price     float64 `json:"price"`
}

type Billing struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type ProcessingInfo struct {
	ImageSize    int64  `json:"imageSize"`
	MimeType     string `json:"mimeType"`
	ProcessedAt  string `json:"processedAt"`
	ProcessingID string `json:"processingId"`
}

// PrescriptionResult is built per request and never stored
type PrescriptionResult struct {
	PatientName    string                 `json:"patientName"`
	PatientAge     string                 `json:"patientAge"`
	Date           string                 `json:"date"`
	PrescriptionID string                 `json:"prescriptionId"`
	Medicines      []PrescriptionMedicine `json:"medicines"`
	Billing        Billing                `json:"billing"`
	AIInsights     string                 `json:"aiInsights"`
	ProcessingInfo ProcessingInfo         `json:"processingInfo"`
}

// Recognition is what a recognizer reads off a prescription image
type Recognition struct {
	PatientName    string
	PatientAge     string
	Date           string
	PrescriptionID string
	Medicines      []PrescribedMedicine
}
