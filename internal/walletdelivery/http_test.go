package walletdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-petr/family-wallet/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

func newTestServer(service Service) *gin.Engine {
	handler := NewHandler(service)

	server := gin.New()
	server.POST("/wallets", handler.Create)
	server.GET("/wallets/:id", handler.Get)
	server.POST("/wallets/:id/deposits", handler.Deposit)
	server.POST("/wallets/:id/expenses", handler.RecordExpense)
	server.PUT("/wallets/:id/allowance", handler.SetAllowance)
	server.POST("/wallets/:id/allowance/apply", handler.ApplyAllowance)

	return server
}

func serve(t *testing.T, service Service, method, url string, requestBody gin.H) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if requestBody != nil {
		body, err := json.Marshal(requestBody)
		require.NoError(t, err)

		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	newTestServer(service).ServeHTTP(recorder, req)

	return recorder
}

func decodeWallet(t *testing.T, recorder *httptest.ResponseRecorder) walletResponse {
	t.Helper()

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)

	var res response
	require.NoError(t, json.Unmarshal(body, &res))

	return res.Data.Wallet
}

func testWallet(id, userID int32, balance, allowance int64) domain.Wallet {
	return domain.Wallet{
		ID:              id,
		UserID:          userID,
		Balance:         balance,
		WeeklyAllowance: allowance,
		CreatedAt:       time.Now().Truncate(time.Second).UTC(),
	}
}

func TestCreateWalletAPI(t *testing.T) {
	userID := int32(1)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "MissingUserID",
			requestBody: gin.H{"initial_balance": "100.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "MalformedInitialBalance",
			requestBody: gin.H{"user_id": userID, "initial_balance": "12.345"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "UserNotFound",
			requestBody: gin.H{"user_id": userID},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(int64(0))).
					Times(1).
					Return(domain.Wallet{}, domain.ErrUserNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "WalletAlreadyExists",
			requestBody: gin.H{"user_id": userID},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(int64(0))).
					Times(1).
					Return(domain.Wallet{}, domain.ErrWalletAlreadyExists)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name:        "InternalError",
			requestBody: gin.H{"user_id": userID},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(int64(0))).
					Times(1).
					Return(domain.Wallet{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"user_id": userID, "initial_balance": "1000.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Create(gomock.Any(), gomock.Eq(userID), gomock.Eq(int64(100000))).
					Times(1).
					Return(testWallet(3, userID, 100000, 0), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				wallet := decodeWallet(t, recorder)
				require.Equal(t, int32(3), wallet.ID)
				require.Equal(t, "1000.00", wallet.Balance)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			tc.checkResponse(serve(t, service, http.MethodPost, "/wallets", tc.requestBody))
		})
	}
}

func TestGetWalletAPI(t *testing.T) {
	walletID := int32(3)

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidID",
			url:  "/wallets/0",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "NotFound",
			url:  fmt.Sprintf("/wallets/%d", walletID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(walletID)).
					Times(1).
					Return(domain.Wallet{}, domain.ErrWalletNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "OK",
			url:  fmt.Sprintf("/wallets/%d", walletID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(walletID)).
					Times(1).
					Return(testWallet(walletID, 1, 120050, 5000), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				wallet := decodeWallet(t, recorder)
				require.Equal(t, "1200.50", wallet.Balance)
				require.Equal(t, "50.00", wallet.WeeklyAllowance)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			tc.checkResponse(serve(t, service, http.MethodGet, tc.url, nil))
		})
	}
}

func TestDepositAPI(t *testing.T) {
	walletID := int32(3)
	url := fmt.Sprintf("/wallets/%d/deposits", walletID)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "MissingAmount",
			requestBody: gin.H{},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "MalformedAmount",
			requestBody: gin.H{"amount": "twenty"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "NonPositiveAmount",
			requestBody: gin.H{"amount": "-20.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(-2000))).
					Times(1).
					Return(domain.Wallet{}, domain.ErrNonPositiveAmount)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "WalletNotFound",
			requestBody: gin.H{"amount": "200.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(20000))).
					Times(1).
					Return(domain.Wallet{}, domain.ErrWalletNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"amount": "200.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Deposit(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(20000))).
					Times(1).
					Return(testWallet(walletID, 1, 120000, 0), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				wallet := decodeWallet(t, recorder)
				require.Equal(t, "1200.00", wallet.Balance)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			tc.checkResponse(serve(t, service, http.MethodPost, url, tc.requestBody))
		})
	}
}

func TestRecordExpenseAPI(t *testing.T) {
	walletID := int32(3)
	url := fmt.Sprintf("/wallets/%d/expenses", walletID)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "InsufficientBalance",
			requestBody: gin.H{"amount": "1300.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RecordExpense(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(130000)), gomock.Eq("")).
					Times(1).
					Return(domain.Wallet{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"amount": "300.00", "description": "school lunch"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					RecordExpense(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(30000)), gomock.Eq("school lunch")).
					Times(1).
					Return(testWallet(walletID, 1, 90000, 0), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				wallet := decodeWallet(t, recorder)
				require.Equal(t, "900.00", wallet.Balance)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			tc.checkResponse(serve(t, service, http.MethodPost, url, tc.requestBody))
		})
	}
}

func TestSetAllowanceAPI(t *testing.T) {
	walletID := int32(3)
	url := fmt.Sprintf("/wallets/%d/allowance", walletID)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "NegativeAmount",
			requestBody: gin.H{"amount": "-50.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					SetWeeklyAllowance(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(-5000))).
					Times(1).
					Return(domain.Wallet{}, domain.ErrNegativeAmount)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"amount": "50.00"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					SetWeeklyAllowance(gomock.Any(), gomock.Eq(walletID), gomock.Eq(int64(5000))).
					Times(1).
					Return(testWallet(walletID, 1, 100000, 5000), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				wallet := decodeWallet(t, recorder)
				require.Equal(t, "50.00", wallet.WeeklyAllowance)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			tc.checkResponse(serve(t, service, http.MethodPut, url, tc.requestBody))
		})
	}
}

func TestApplyAllowanceAPI(t *testing.T) {
	walletID := int32(3)
	url := fmt.Sprintf("/wallets/%d/allowance/apply", walletID)

	testCases := []struct {
		name          string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "AllowanceNotSet",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ApplyAllowance(gomock.Any(), gomock.Eq(walletID)).
					Times(1).
					Return(domain.Wallet{}, domain.ErrAllowanceNotSet)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "AlreadyApplied",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ApplyAllowance(gomock.Any(), gomock.Eq(walletID)).
					Times(1).
					Return(domain.Wallet{}, domain.ErrAllowanceAlreadyApplied)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					ApplyAllowance(gomock.Any(), gomock.Eq(walletID)).
					Times(1).
					Return(testWallet(walletID, 1, 105000, 5000), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				wallet := decodeWallet(t, recorder)
				require.Equal(t, "1050.00", wallet.Balance)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			tc.checkResponse(serve(t, service, http.MethodPost, url, nil))
		})
	}
}
