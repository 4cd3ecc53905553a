package balance_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/npereira/centavo/internal/auth"
	"github.com/npereira/centavo/internal/http/balance"
	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/ledger"
	"github.com/npereira/centavo/internal/user"
)

func testRouter(t *testing.T, issuer *auth.Issuer, repo *ledger.MockRepository) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	h := balance.NewHandler(user.NewService(user.NewMockRepository(ctrl), issuer), ledger.NewService(repo))

	router := chi.NewRouter()
	router.Route("/balance", func(r chi.Router) {
		r.Use(middleware.Authenticator(issuer))
		h.Routes(r)
	})

	return router
}

func TestHandler_Withdraw(t *testing.T) {
	issuer := auth.NewIssuer("test-access", "test-refresh", time.Hour, 24*time.Hour)
	userID := uuid.New()

	access, err := issuer.IssueAccess(userID, "a@x.com")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := ledger.NewMockRepository(ctrl)
		repo.EXPECT().
			AdjustBalance(gomock.Any(), userID, int64(-500), "").
			Return(int64(1500), nil)

		router := testRouter(t, issuer, repo)

		req := httptest.NewRequest(http.MethodPost, "/balance/withdraw", bytes.NewBufferString(`{"amount":500}`))
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"balance":1500}`, rec.Body.String())
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		router := testRouter(t, issuer, ledger.NewMockRepository(ctrl))

		req := httptest.NewRequest(http.MethodPost, "/balance/withdraw", bytes.NewBufferString(`{"amount":0}`))
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
