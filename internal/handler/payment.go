package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mycredit/lending-engine/internal/domain"
	customError "github.com/mycredit/lending-engine/pkg/errors"
	"github.com/mycredit/lending-engine/pkg/response"
)

// SubmitPayment handles POST /payments/submit (borrower only).
func (h *LendingHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if actor.Role != domain.RoleBorrower {
		response.Unauthorized(w, "only borrowers can submit payments")
		return
	}

	var request domain.SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, err.Error())
		return
	}

	result, err := h.service.SubmitPayment(r.Context(), actor.ID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, result)
}

// VerifyPayment handles PATCH /payments/{paymentId} (staff only).
func (h *LendingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if !actor.Role.Staff() {
		response.Unauthorized(w, "only staff can verify payments")
		return
	}

	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid payment ID")
		return
	}

	var request domain.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, err.Error())
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), paymentID, actor, request.Action)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPendingPayments handles GET /payments/pending (staff only).
func (h *LendingHandler) ListPendingPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if !actor.Role.Staff() {
		response.Unauthorized(w, "only staff can view the verification queue")
		return
	}

	payments, err := h.service.ListPendingPayments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payments)
}
