// Package handlers provides HTTP request handlers for the prescription API:
// health, catalog listing and additions, and prescription processing.
// Every response uses the {success, data|error, message} envelope.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/giygas/mediscript-api/entities"
	"github.com/giygas/mediscript-api/interfaces"
	"github.com/giygas/mediscript-api/logging"
	"github.com/giygas/mediscript-api/metrics"
	"github.com/giygas/mediscript-api/validation"
)

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

const (
	msgFieldsRequired   = "Name, potency, and price are required"
	msgNoPrescription   = "No prescription image uploaded"
	msgMedicineAdded    = "Medicine added successfully"
	msgPrescriptionDone = "Prescription processed successfully"
)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.MedicineStore
	processor interfaces.PrescriptionProcessor
	uploads   interfaces.UploadValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.MedicineStore, processor interfaces.PrescriptionProcessor,
	uploads interfaces.UploadValidator, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		processor: processor,
		uploads:   uploads,
		health:    health,
	}
}

// HealthCheck returns static service information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.health.HealthCheck())
}

// ListMedicines returns the whole catalog
func (h *HTTPHandlerImpl) ListMedicines(w http.ResponseWriter, r *http.Request) {
	medicines := h.store.List()
	RespondWithJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Data:    medicines,
		Count:   len(medicines),
	})
}

// addMedicineRequest keeps price raw so both 5.5 and "5.5" are accepted
type addMedicineRequest struct {
	Name    *string         `json:"name"`
	Potency *string         `json:"potency"`
	Price   json.RawMessage `json:"price"`
}

// priceText returns the literal text of a JSON number or the contents of a JSON string.
// ok is false when the price is absent or null.
func (req addMedicineRequest) priceText() (text string, ok bool) {
	raw := bytes.TrimSpace(req.Price)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw), true
		}
		return s, true
	}

	return string(raw), true
}

// AddMedicine appends a medicine to the catalog
func (h *HTTPHandlerImpl) AddMedicine(w http.ResponseWriter, r *http.Request) {
	var req addMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RespondWithError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body too large. Maximum allowed size is %d bytes", maxErr.Limit))
			return
		}
		logging.Warn("Invalid add-medicine body", "error", err)
		RespondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	price, hasPrice := req.priceText()
	if req.Name == nil || *req.Name == "" || req.Potency == nil || *req.Potency == "" || !hasPrice {
		RespondWithError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}

	med, err := h.store.Add(entities.MedicineInput{Name: *req.Name, Potency: *req.Potency, Price: price})
	if err != nil {
		var vErr *validation.ValidationError
		if errors.As(err, &vErr) {
			RespondWithError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		logging.Error("Failed to add medicine", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to add medicine: "+err.Error())
		return
	}

	metrics.MedicinesAdded.Inc()
	metrics.CatalogSize.Set(float64(h.store.Count()))
	logging.Info("Medicine added", "name", med.Name, "potency", med.Potency, "price", med.Price)

	RespondWithJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    med,
		Message: msgMedicineAdded,
	})
}

// ProcessPrescription validates the uploaded image and returns the mocked prescription
func (h *HTTPHandlerImpl) ProcessPrescription(w http.ResponseWriter, r *http.Request) {
	file, err := h.uploads.ValidateUpload(w, r)
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	result, err := h.processor.Process(r.Context(), file)
	if err != nil {
		metrics.PrescriptionsProcessed.WithLabelValues("error").Inc()
		logging.Error("Error processing prescription", "error", err, "filename", file.Filename)
		RespondWithError(w, http.StatusInternalServerError, "Failed to process prescription: "+err.Error())
		return
	}

	metrics.PrescriptionsProcessed.WithLabelValues("success").Inc()
	metrics.PrescriptionTotal.Observe(result.Billing.Total)

	RespondWithJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    result,
		Message: msgPrescriptionDone,
	})
}

func (h *HTTPHandlerImpl) respondUploadError(w http.ResponseWriter, err error) {
	var rejected *validation.UploadRejectedError
	if !errors.As(err, &rejected) {
		metrics.PrescriptionsProcessed.WithLabelValues("error").Inc()
		logging.Error("Upload validation failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to process prescription: "+err.Error())
		return
	}

	metrics.PrescriptionsProcessed.WithLabelValues("rejected").Inc()
	metrics.UploadRejections.WithLabelValues(rejected.Reason.String()).Inc()
	logging.Warn("Prescription upload rejected", "reason", rejected.Reason.String(), "detail", rejected.Error())

	switch rejected.Reason {
	case validation.RejectTooLarge:
		RespondWithError(w, http.StatusBadRequest, fileTooLargeMessage(rejected.Limit))
	case validation.RejectMalformed:
		RespondWithError(w, http.StatusBadRequest, "Invalid prescription upload: "+rejected.Error())
	default:
		RespondWithError(w, http.StatusBadRequest, msgNoPrescription)
	}
}

func fileTooLargeMessage(limit int64) string {
	size := strconv.FormatInt(limit, 10) + " bytes"
	if limit >= 1<<20 && limit%(1<<20) == 0 {
		size = strconv.FormatInt(limit>>20, 10) + "MB"
	}
	return "File too large. Maximum size is " + size + "."
}
