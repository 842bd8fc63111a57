package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mycredit/lending-engine/internal/domain"
	"github.com/mycredit/lending-engine/internal/service"
	customError "github.com/mycredit/lending-engine/pkg/errors"
	"github.com/mycredit/lending-engine/pkg/response"
)

type LendingHandler struct {
	service   *service.LendingService
	validator *validator.Validate
}

func NewLendingHandler(service *service.LendingService) *LendingHandler {
	return &LendingHandler{
		service:   service,
		validator: validator.New(),
	}
}

// ApplyLoan handles POST /loans/apply (borrower only).
func (h *LendingHandler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if actor.Role != domain.RoleBorrower {
		response.Unauthorized(w, "only borrowers can apply for loans")
		return
	}

	var request domain.ApplyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, err.Error())
		return
	}

	result, err := h.service.ApplyLoan(r.Context(), actor.ID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, result)
}

// DecideLoan handles PATCH /loans/{loanId} (staff only).
func (h *LendingHandler) DecideLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if !actor.Role.Staff() {
		response.Unauthorized(w, "only staff can decide loans")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid loan ID")
		return
	}

	var request domain.DecideLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, err.Error())
		return
	}

	result, err := h.service.DecideLoan(r.Context(), loanID, actor, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLoan handles GET /loans/{loanId}. Borrowers only see their own
// loans; staff see everything.
func (h *LendingHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid loan ID")
		return
	}

	detail, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	if actor.Role == domain.RoleBorrower && detail.Loan.UserID != actor.ID {
		response.NotFound(w, "Loan not found")
		return
	}

	response.Success(w, detail)
}

// ListLoans handles GET /loans?user_id=. Borrowers are always scoped to
// their own loans regardless of the query parameter.
func (h *LendingHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}

	userID := actor.ID
	if actor.Role.Staff() {
		parsed, err := uuid.Parse(r.URL.Query().Get("user_id"))
		if err != nil {
			response.BadRequest(w, customError.CodeValidation, "user_id query parameter is required")
			return
		}
		userID = parsed
	}

	loans, err := h.service.ListLoansByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loans)
}

// GetOutstanding handles GET /loans/{loanId}/outstanding (staff only;
// borrowers read their balance off the loan detail).
func (h *LendingHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if !actor.Role.Staff() {
		response.Forbidden(w, "staff only")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid loan ID")
		return
	}

	result, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

// LoanOptions handles GET /loans/options.
func (h *LendingHandler) LoanOptions(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFrom(r); !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}

	options, err := h.service.LoanOptions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, options)
}
