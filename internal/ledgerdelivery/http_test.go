package ledgerdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/tx-ledger/internal/domain"
	"github.com/go-petr/tx-ledger/pkg/errorspkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*gin.Engine, *MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := NewHandler(service)

	engine := gin.New()
	engine.POST("/transactions", handler.Create)
	engine.GET("/accounts", handler.List)
	engine.GET("/accounts/:client", handler.Get)

	return engine, service
}

func testAccount(clientID uint16, available, held string, locked bool) domain.Account {
	return domain.Account{
		ClientID:  clientID,
		Available: decimal.RequireFromString(available),
		Held:      decimal.RequireFromString(held),
		Locked:    locked,
	}
}

func TestCreate(t *testing.T) {
	depositEvent := domain.NewDeposit(1, 1, decimal.RequireFromString("5.0"))
	disputeEvent := domain.NewDispute(1, 1)

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantAccount    *AccountResponse
		wantError      string
	}{
		{
			name:        "OKDeposit",
			requestBody: gin.H{"type": "deposit", "client": 1, "tx": 1, "amount": "5.0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Eq(depositEvent)).
					Times(1).
					Return(nil)
				service.EXPECT().
					Account(gomock.Any(), gomock.Eq(uint16(1))).
					Times(1).
					Return(testAccount(1, "5.0", "0", false), nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccount: &AccountResponse{
				Client:    1,
				Available: "5.0000",
				Held:      "0.0000",
				Total:     "5.0000",
				Locked:    false,
			},
		},
		{
			name:        "OKDispute",
			requestBody: gin.H{"type": "dispute", "client": 1, "tx": 1},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Eq(disputeEvent)).
					Times(1).
					Return(nil)
				service.EXPECT().
					Account(gomock.Any(), gomock.Eq(uint16(1))).
					Times(1).
					Return(testAccount(1, "0", "5.0", false), nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccount: &AccountResponse{
				Client:    1,
				Available: "0.0000",
				Held:      "5.0000",
				Total:     "5.0000",
				Locked:    false,
			},
		},
		{
			name:        "UnknownType",
			requestBody: gin.H{"type": "transfer", "client": 1, "tx": 1, "amount": "5.0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Type",
		},
		{
			name:        "MissingType",
			requestBody: gin.H{"client": 1, "tx": 1, "amount": "5.0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Type is required",
		},
		{
			name:        "UnparseableAmount",
			requestBody: gin.H{"type": "deposit", "client": 1, "tx": 1, "amount": "abc"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "DuplicateTransaction",
			requestBody: gin.H{"type": "deposit", "client": 1, "tx": 1, "amount": "5.0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Eq(depositEvent)).
					Times(1).
					Return(domain.ErrDuplicateTransaction)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrDuplicateTransaction.Error(),
		},
		{
			name:        "InsufficientFunds",
			requestBody: gin.H{"type": "withdrawal", "client": 1, "tx": 1, "amount": "5.0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ErrInsufficientFunds)
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name:        "AccountLocked",
			requestBody: gin.H{"type": "deposit", "client": 1, "tx": 1, "amount": "5.0"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ErrAccountLocked)
			},
			wantStatusCode: http.StatusLocked,
			wantError:      domain.ErrAccountLocked.Error(),
		},
		{
			name:        "InvalidDispute",
			requestBody: gin.H{"type": "dispute", "client": 1, "tx": 99},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ErrInvalidDispute)
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      domain.ErrInvalidDispute.Error(),
		},
		{
			name:        "InternalError",
			requestBody: gin.H{"type": "resolve", "client": 1, "tx": 1},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Apply(gomock.Any(), gomock.Any()).
					Times(1).
					Return(errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			engine, service := newTestServer(t)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			var res struct {
				Data struct {
					Account AccountResponse `json:"account"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

			if tc.wantAccount != nil {
				if diff := cmp.Diff(*tc.wantAccount, res.Data.Account); diff != "" {
					t.Errorf("account mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.wantError != "" {
				require.Contains(t, recorder.Body.String(), tc.wantError)
			}
		})
	}
}

func TestGet(t *testing.T) {
	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantAccount    *AccountResponse
	}{
		{
			name: "OK",
			url:  "/accounts/1",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Account(gomock.Any(), gomock.Eq(uint16(1))).
					Times(1).
					Return(testAccount(1, "2.0", "3.0", false), nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccount: &AccountResponse{
				Client:    1,
				Available: "2.0000",
				Held:      "3.0000",
				Total:     "5.0000",
				Locked:    false,
			},
		},
		{
			name: "NotFound",
			url:  "/accounts/2",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Account(gomock.Any(), gomock.Eq(uint16(2))).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "BadClientID",
			url:  "/accounts/abc",
			buildStubs: func(service *MockService) {
				service.EXPECT().Account(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			engine, service := newTestServer(t)
			tc.buildStubs(service)

			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantAccount != nil {
				var res struct {
					Data struct {
						Account AccountResponse `json:"account"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

				if diff := cmp.Diff(*tc.wantAccount, res.Data.Account); diff != "" {
					t.Errorf("account mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		engine, service := newTestServer(t)

		service.EXPECT().
			Accounts(gomock.Any()).
			Times(1).
			Return([]domain.Account{
				testAccount(1, "2.0", "0", false),
				testAccount(2, "0", "5.0", true),
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var res struct {
			Data struct {
				Accounts []AccountResponse `json:"accounts"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

		want := []AccountResponse{
			{Client: 1, Available: "2.0000", Held: "0.0000", Total: "2.0000", Locked: false},
			{Client: 2, Available: "0.0000", Held: "5.0000", Total: "5.0000", Locked: true},
		}

		if diff := cmp.Diff(want, res.Data.Accounts); diff != "" {
			t.Errorf("accounts mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("InternalError", func(t *testing.T) {
		engine, service := newTestServer(t)

		service.EXPECT().
			Accounts(gomock.Any()).
			Times(1).
			Return(nil, errorspkg.ErrInternal)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}
