package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycredit/lending-engine/internal/domain"
	customError "github.com/mycredit/lending-engine/pkg/errors"
)

func TestActorFrom(t *testing.T) {
	t.Run("parses the forwarded identity", func(t *testing.T) {
		id := uuid.New()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Actor-ID", id.String())
		r.Header.Set("X-Actor-Role", "staff")

		actor, ok := actorFrom(r)

		require.True(t, ok)
		assert.Equal(t, id, actor.ID)
		assert.Equal(t, domain.RoleStaff, actor.Role)
	})

	t.Run("rejects a missing id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Actor-Role", "staff")

		_, ok := actorFrom(r)
		assert.False(t, ok)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Actor-ID", uuid.NewString())
		r.Header.Set("X-Actor-Role", "superuser")

		_, ok := actorFrom(r)
		assert.False(t, ok)
	})
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", customError.WrapNotFound("Loan"), http.StatusNotFound},
		{"busy", customError.WrapBusy("Loan"), http.StatusConflict},
		{"store failure", customError.WrapStoreFailure(assert.AnError), http.StatusInternalServerError},
		{"validation", customError.WrapValidation("bad input"), http.StatusBadRequest},
		{"already decided", customError.WrapAlreadyDecided("Verified"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRoleGates(t *testing.T) {
	// The gates fire before any service call, so a zero service is safe.
	h := &LendingHandler{}

	newReq := func(method, target, role string) *http.Request {
		r := httptest.NewRequest(method, target, strings.NewReader("{}"))
		r.Header.Set("X-Actor-ID", uuid.NewString())
		r.Header.Set("X-Actor-Role", role)
		return r
	}

	t.Run("staff cannot apply for loans", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ApplyLoan(w, newReq(http.MethodPost, "/api/v1/loans/apply", "staff"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("borrowers cannot decide loans", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.DecideLoan(w, newReq(http.MethodPatch, "/api/v1/loans/x", "borrower"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("staff cannot modify user status", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.SetUserStatus(w, newReq(http.MethodPatch, "/api/v1/users/x/status", "staff"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/payments/submit", strings.NewReader("{}"))
		h.SubmitPayment(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("a malformed loan id is rejected before the body is read", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := newReq(http.MethodPatch, "/api/v1/loans/not-a-uuid", "staff")
		r = mux.SetURLVars(r, map[string]string{"loanId": "not-a-uuid"})
		h.DecideLoan(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
