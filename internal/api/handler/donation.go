// internal/api/handler/donation.go
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/saakcy7/kindfund/internal/api/types"
	"github.com/saakcy7/kindfund/internal/domain"
	"github.com/saakcy7/kindfund/internal/service"
	"github.com/saakcy7/kindfund/internal/util" // For custom errors
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps the size of a donation submission.
const maxBodyBytes = 64 << 10

// NotConfiguredMessage is returned while no Move package ID is configured.
const NotConfiguredMessage = "Package ID not configured. Please deploy the Move contract and update .env file."

// DonationHandler handles HTTP requests related to donations.
type DonationHandler struct {
	service service.DonationService
	logger  *slog.Logger
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(svc service.DonationService, logger *slog.Logger) *DonationHandler {
	return &DonationHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *DonationHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *DonationHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		message = validationErr.Error() // Names the offending fields
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = "Invalid request body"
	case util.IsError(err, util.ErrNotConfigured):
		message = NotConfiguredMessage
		h.logger.Warn("Config requested before package ID was set")
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// RecordDonationRequest represents the request body for recording a donation.
// Amount may be sent as a JSON string ("10.5") or a JSON number (10.5).
type RecordDonationRequest struct {
	Name     string          `json:"name"`
	Amount   json.RawMessage `json:"amount"`
	Message  string          `json:"message"`
	Donor    string          `json:"donor"`
	TxDigest string          `json:"txDigest"`
}

// amountText returns the literal text of the amount without going through float64.
func amountText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	}
	return string(raw)
}

// RecordDonation handles a donation submission.
// POST /api/donations
func (h *DonationHandler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	var req RecordDonationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	donation, err := h.service.RecordDonation(r.Context(), domain.DonationInput{
		Name:     req.Name,
		Amount:   amountText(req.Amount),
		Message:  req.Message,
		Donor:    req.Donor,
		TxDigest: req.TxDigest,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.RecordDonationResponse{
		Success:  true,
		Donation: donation,
	})
}

// GetDonations handles the donation list request.
// GET /api/donations
func (h *DonationHandler) GetDonations(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.GetDonations(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.DonationsResponse{
		Donations: snapshot.Donations,
		Total:     snapshot.Total,
		Count:     snapshot.Count,
	})
}

// GetConfig handles the public chain configuration request.
// GET /api/config
func (h *DonationHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetPublicConfig(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cfg)
}

// GetStatus handles the health check.
// GET / and GET /health
func (h *DonationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetStatus(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, status)
}
