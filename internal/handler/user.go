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

// SetUserStatus handles PATCH /users/{userId}/status. Only admins may
// deactivate or reactivate a borrower.
func (h *LendingHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w, "missing or invalid actor identity")
		return
	}
	if actor.Role != domain.RoleAdmin {
		response.Forbidden(w, "only admins can modify user status")
		return
	}

	userID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid user ID")
		return
	}

	var request domain.SetUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, customError.CodeValidation, err.Error())
		return
	}

	result, err := h.service.SetUserStatus(r.Context(), userID, actor, request.Action)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}
