package ledgerdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Tanishq-btech-cse/bank-ledger/internal/domain"
	"github.com/Tanishq-btech-cse/bank-ledger/internal/middleware"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/errorspkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/randompkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/tokenpkg"
)

func randomAccount(username string) domain.Account {
	return domain.Account{
		AccountNumber:  870500000000 + randompkg.Intn(100_000_000),
		HolderName:     randompkg.Owner(),
		Username:       username,
		Password:       randompkg.String(10),
		TransactionPIN: "1234",
		Balance:        randompkg.MoneyAmountBetween(1000, 10_000),
		CreatedAt:      time.Now().Truncate(time.Second).UTC(),
	}
}

func newTestServer(t *testing.T) (*gin.Engine, *MockService, tokenpkg.Maker) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	handler := NewHandler(service, tokenMaker, time.Minute)

	gin.SetMode(gin.TestMode)
	server := gin.New()

	server.POST("/accounts", handler.Open)
	server.POST("/sessions", handler.Login)

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.GET("/accounts/:number", handler.Get)
	authRoutes.GET("/accounts/:number/balance", handler.GetBalance)
	authRoutes.GET("/accounts/:number/history", handler.ListHistory)
	authRoutes.POST("/accounts/:number/deposits", handler.Deposit)
	authRoutes.POST("/accounts/:number/withdrawals", handler.Withdraw)
	authRoutes.POST("/transfers", handler.Transfer)

	return server, service, tokenMaker
}

func TestOpenAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"holder_name":     account.HolderName,
				"initial_balance": "1000",
				"username":        username,
				"password":        "secret123",
				"transaction_pin": "1234",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), account.HolderName, "1000", username, "secret123", "1234").
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "MalformedPIN",
			requestBody: gin.H{
				"holder_name":     account.HolderName,
				"initial_balance": "1000",
				"username":        username,
				"password":        "secret123",
				"transaction_pin": "12",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "NegativeBalance",
			requestBody: gin.H{
				"holder_name":     account.HolderName,
				"initial_balance": "-100",
				"username":        username,
				"password":        "secret123",
				"transaction_pin": "1234",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), account.HolderName, "-100", username, "secret123", "1234").
					Times(1).
					Return(domain.Account{}, domain.ErrNegativeBalance)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "DuplicateUsername",
			requestBody: gin.H{
				"holder_name":     account.HolderName,
				"initial_balance": "1000",
				"username":        username,
				"password":        "secret123",
				"transaction_pin": "1234",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), account.HolderName, "1000", username, "secret123", "1234").
					Times(1).
					Return(domain.Account{}, domain.ErrUsernameAlreadyExists)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server, service, _ := newTestServer(t)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			recorder := httptest.NewRecorder()

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestLoginAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"username": username,
				"password": "secret123",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), username, "secret123").
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res struct {
					AccessToken string `json:"access_token"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.NotEmpty(t, res.AccessToken)
			},
		},
		{
			name: "AuthenticationFailed",
			requestBody: gin.H{
				"username": username,
				"password": "wrongpass",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), username, "wrongpass").
					Times(1).
					Return(domain.Account{}, domain.ErrAuthenticationFailed)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server, service, _ := newTestServer(t)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
			recorder := httptest.NewRecorder()

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestGetAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	testCases := []struct {
		name          string
		accountNumber int64
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:          "OK",
			accountNumber: account.AccountNumber,
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res struct {
					Data struct {
						Account domain.WithoutSecrets `json:"account"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, account.AccountNumber, res.Data.Account.AccountNumber)
				require.Equal(t, account.Balance, res.Data.Account.Balance)
			},
		},
		{
			name:          "NoAuthorization",
			accountNumber: account.AccountNumber,
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:          "NotFound",
			accountNumber: account.AccountNumber,
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:          "NotOwner",
			accountNumber: account.AccountNumber,
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, "someoneelse", time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:          "InvalidAccountNumber",
			accountNumber: 0,
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			url := fmt.Sprintf("/accounts/%d", tc.accountNumber)
			request := httptest.NewRequest(http.MethodGet, url, nil)
			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestGetBalanceAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	balance := decimal.RequireFromString(account.Balance)

	testCases := []struct {
		name          string
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
				service.EXPECT().
					GetBalance(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(balance, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res struct {
					Data struct {
						AccountNumber int64           `json:"account_number"`
						Balance       decimal.Decimal `json:"balance"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, account.AccountNumber, res.Data.AccountNumber)
				require.True(t, balance.Equal(res.Data.Balance))
			},
		},
		{
			name: "NotOwner",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, "someoneelse", time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
				service.EXPECT().GetBalance(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "InternalError",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
				service.EXPECT().
					GetBalance(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(decimal.Zero, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			url := fmt.Sprintf("/accounts/%d/balance", account.AccountNumber)
			request := httptest.NewRequest(http.MethodGet, url, nil)
			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestDepositAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NoAuthorization",
			requestBody: gin.H{
				"amount":          "100",
				"transaction_pin": "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "WrongPIN",
			requestBody: gin.H{
				"amount":          "100",
				"transaction_pin": "0000",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
				service.EXPECT().
					VerifyPIN(gomock.Any(), account.AccountNumber, "0000").
					Times(1).
					Return(domain.ErrWrongPIN)
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "NotOwner",
			requestBody: gin.H{
				"amount":          "100",
				"transaction_pin": "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, "someoneelse", time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
				service.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"amount":          "100",
				"transaction_pin": "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), account.AccountNumber).
					Times(1).
					Return(account, nil)
				service.EXPECT().
					VerifyPIN(gomock.Any(), account.AccountNumber, "1234").
					Times(1).
					Return(nil)
				service.EXPECT().
					Deposit(gomock.Any(), account.AccountNumber, "100").
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			url := fmt.Sprintf("/accounts/%d/deposits", account.AccountNumber)
			request := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestWithdrawAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	t.Run("InsufficientBalance", func(t *testing.T) {
		server, service, tokenMaker := newTestServer(t)

		service.EXPECT().
			Get(gomock.Any(), account.AccountNumber).
			Times(1).
			Return(account, nil)
		service.EXPECT().
			VerifyPIN(gomock.Any(), account.AccountNumber, "1234").
			Times(1).
			Return(nil)
		service.EXPECT().
			Withdraw(gomock.Any(), account.AccountNumber, "1000000").
			Times(1).
			Return(domain.Account{}, domain.ErrInsufficientBalance)

		body, err := json.Marshal(gin.H{
			"amount":          "1000000",
			"transaction_pin": "1234",
		})
		require.NoError(t, err)

		url := fmt.Sprintf("/accounts/%d/withdrawals", account.AccountNumber)
		request := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)

		recorder := httptest.NewRecorder()

		server.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestTransferAPI(t *testing.T) {
	username := randompkg.Username()
	sender := randomAccount(username)
	receiver := randomAccount(randompkg.Username())

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"from_account_number": sender.AccountNumber,
				"to_account_number":   receiver.AccountNumber,
				"amount":              "300",
				"transaction_pin":     "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), sender.AccountNumber).
					Times(1).
					Return(sender, nil)
				service.EXPECT().
					VerifyPIN(gomock.Any(), sender.AccountNumber, "1234").
					Times(1).
					Return(nil)
				service.EXPECT().
					Transfer(gomock.Any(), sender.AccountNumber, receiver.AccountNumber, "300").
					Times(1).
					Return(domain.TransferResult{FromAccount: sender, ToAccount: receiver}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "NotSenderOwner",
			requestBody: gin.H{
				"from_account_number": sender.AccountNumber,
				"to_account_number":   receiver.AccountNumber,
				"amount":              "300",
				"transaction_pin":     "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, receiver.Username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), sender.AccountNumber).
					Times(1).
					Return(sender, nil)
				service.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "SelfTransferRejectedOnBind",
			requestBody: gin.H{
				"from_account_number": sender.AccountNumber,
				"to_account_number":   sender.AccountNumber,
				"amount":              "300",
				"transaction_pin":     "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ReceiverNotFound",
			requestBody: gin.H{
				"from_account_number": sender.AccountNumber,
				"to_account_number":   receiver.AccountNumber,
				"amount":              "300",
				"transaction_pin":     "1234",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), sender.AccountNumber).
					Times(1).
					Return(sender, nil)
				service.EXPECT().
					VerifyPIN(gomock.Any(), sender.AccountNumber, "1234").
					Times(1).
					Return(nil)
				service.EXPECT().
					Transfer(gomock.Any(), sender.AccountNumber, receiver.AccountNumber, "300").
					Times(1).
					Return(domain.TransferResult{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server, service, tokenMaker := newTestServer(t)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestGetHistoryAPI(t *testing.T) {
	username := randompkg.Username()
	account := randomAccount(username)

	entries := []domain.Entry{
		{TransactionID: 3, AccountNumber: account.AccountNumber, Type: domain.EntryDeposit, Amount: "50", CreatedAt: time.Now().UTC()},
		{TransactionID: 2, AccountNumber: account.AccountNumber, Type: domain.EntryAccountOpened, Amount: "100", CreatedAt: time.Now().UTC().Add(-time.Hour)},
	}

	server, service, tokenMaker := newTestServer(t)

	service.EXPECT().
		Get(gomock.Any(), account.AccountNumber).
		Times(1).
		Return(account, nil)
	service.EXPECT().
		ListHistory(gomock.Any(), account.AccountNumber).
		Times(1).
		Return(entries, nil)

	url := fmt.Sprintf("/accounts/%d/history", account.AccountNumber)
	request := httptest.NewRequest(http.MethodGet, url, nil)
	middleware.AddAuthorization(t, request, tokenMaker, middleware.AuthorizationTypeBearer, username, time.Minute)

	recorder := httptest.NewRecorder()

	server.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data struct {
			Entries []domain.Entry `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.Len(t, res.Data.Entries, 2)
	require.Equal(t, int64(3), res.Data.Entries[0].TransactionID)
}
