package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mycredit/lending-engine/internal/domain"
	customError "github.com/mycredit/lending-engine/pkg/errors"
	"github.com/mycredit/lending-engine/pkg/response"
)

// actorFrom reads the authenticated identity the upstream auth layer
// injects as headers. The engine never authenticates; it only consumes
// the forwarded id and role.
func actorFrom(r *http.Request) (domain.Actor, bool) {
	id, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
	if err != nil {
		return domain.Actor{}, false
	}

	role := domain.ActorRole(r.Header.Get("X-Actor-Role"))
	if !role.Valid() {
		return domain.Actor{}, false
	}

	return domain.Actor{ID: id, Role: role}, true
}

// writeError maps the business-error taxonomy onto HTTP statuses. Only
// the stable code and message go over the wire.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch customError.CodeOf(err) {
	case customError.CodeNotFound:
		status = http.StatusNotFound
	case customError.CodeBusy:
		status = http.StatusConflict
	case customError.CodeStoreFailure:
		status = http.StatusInternalServerError
	default:
		status = http.StatusBadRequest
	}

	message := "request failed"
	var be *customError.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}

	response.Error(w, status, customError.CodeOf(err), message)
}
