package http

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"

	"dinarx/internal/domain/banking"
	"dinarx/internal/domain/customer"
	"dinarx/internal/infrastructure/jopacc"
)

// Jordanian IBAN: JO + 2 check digits + 4 bank code letters + 22 digits.
var jordanIBANPattern = regexp.MustCompile(`^JO\d{2}[A-Z]{4}\d{22}$`)

// IBANHandler validates IBANs locally and confirms them upstream.
type IBANHandler struct {
	orchestrator *banking.Orchestrator
	resolver     *customer.Resolver
}

func NewIBANHandler(orchestrator *banking.Orchestrator, resolver *customer.Resolver) *IBANHandler {
	return &IBANHandler{orchestrator: orchestrator, resolver: resolver}
}

// ValidateIBANRequest uses the camelCase field names the mobile clients
// send; responses stay snake_case like the rest of the surface.
type ValidateIBANRequest struct {
	AccountType string `json:"accountType"`
	AccountID   string `json:"accountId"`
	IBANType    string `json:"ibanType"`
	IBANValue   string `json:"ibanValue"`
	UIDType     string `json:"uidType"`
	UIDValue    string `json:"uidValue"`
}

type IBANAPIInfo struct {
	Endpoint   string `json:"endpoint"`
	CustomerID string `json:"customer_id"`
	UIDType    string `json:"uid_type"`
}

type ValidateIBANResponse struct {
	Valid            bool                           `json:"valid"`
	IBANValue        string                         `json:"iban_value"`
	APIInfo          IBANAPIInfo                    `json:"api_info"`
	ValidationResult *jopacc.IBANConfirmationResult `json:"validation_result,omitempty"`
	Error            string                         `json:"error,omitempty"`
}

// HandleValidateIBAN checks the IBAN format locally and, when it passes,
// confirms it against the gateway. A CUSTOMER_ID uid in the body acts as
// the body customer identifier for scoping.
func (h *IBANHandler) HandleValidateIBAN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ValidateIBANRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.IBANValue == "" {
		writeError(w, http.StatusBadRequest, "ibanValue is required")
		return
	}

	iban := strings.ToUpper(strings.ReplaceAll(req.IBANValue, " ", ""))

	bodyCustomerID := ""
	if strings.EqualFold(req.UIDType, "CUSTOMER_ID") {
		bodyCustomerID = req.UIDValue
	}
	cust, err := h.resolver.Resolve(bodyCustomerID, r.Header.Get("x-customer-id"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	response := ValidateIBANResponse{
		IBANValue: iban,
		APIInfo: IBANAPIInfo{
			Endpoint:   "/ibans/v1/confirmation",
			CustomerID: cust.CustomerID,
			UIDType:    req.UIDType,
		},
	}

	if !jordanIBANPattern.MatchString(iban) {
		response.Error = "iban format is invalid for Jordan"
		writeJSON(w, http.StatusOK, response)
		return
	}

	result, err := h.orchestrator.ConfirmIBAN(r.Context(), cust, jopacc.IBANConfirmation{
		AccountType: req.AccountType,
		AccountID:   req.AccountID,
		IBANType:    req.IBANType,
		IBANValue:   iban,
		UIDType:     req.UIDType,
		UIDValue:    req.UIDValue,
	})
	if err != nil {
		log.Printf("Customer %s: iban confirmation failed: %v", cust.CustomerID, err)
		writeUpstreamError(w, err)
		return
	}

	response.Valid = result.Confirmed
	response.ValidationResult = result
	writeJSON(w, http.StatusOK, response)
}
