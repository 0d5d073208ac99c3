// Package ledgerdelivery manages the HTTP delivery layer of the ledger.
// It is a thin wrapper: every request translates into one or two ledger
// service calls, and every service error into an HTTP status.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Tanishq-btech-cse/bank-ledger/internal/domain"
	"github.com/Tanishq-btech-cse/bank-ledger/internal/middleware"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/errorspkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/tokenpkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Login(ctx context.Context, username, password string) (domain.Account, error)
	Open(ctx context.Context, holderName, initialBalance, username, password, pin string) (domain.Account, error)
	Deposit(ctx context.Context, accountNumber int64, amount string) (domain.Account, error)
	Withdraw(ctx context.Context, accountNumber int64, amount string) (domain.Account, error)
	Transfer(ctx context.Context, fromNumber, toNumber int64, amount string) (domain.TransferResult, error)
	Get(ctx context.Context, accountNumber int64) (domain.Account, error)
	GetBalance(ctx context.Context, accountNumber int64) (decimal.Decimal, error)
	ListHistory(ctx context.Context, accountNumber int64) ([]domain.Entry, error)
	VerifyPIN(ctx context.Context, accountNumber int64, pin string) error
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service             Service
	tokenMaker          tokenpkg.Maker
	accessTokenDuration time.Duration
}

// NewHandler returns a ledger handler.
func NewHandler(s Service, tokenMaker tokenpkg.Maker, accessTokenDuration time.Duration) *Handler {
	return &Handler{
		service:             s,
		tokenMaker:          tokenMaker,
		accessTokenDuration: accessTokenDuration,
	}
}

func bindError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

type openRequest struct {
	HolderName     string `json:"holder_name" binding:"required"`
	InitialBalance string `json:"initial_balance" binding:"required"`
	Username       string `json:"username" binding:"required,alphanum"`
	Password       string `json:"password" binding:"required,min=6"`
	TransactionPIN string `json:"transaction_pin" binding:"required,len=4,numeric"`
}

// Open handles http request to open an account.
func (h *Handler) Open(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req openRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Open(ctx, req.HolderName, req.InitialBalance, req.Username, req.Password, req.TransactionPIN)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrNegativeBalance),
			errors.Is(err, domain.ErrInvalidPIN):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, domain.ErrUsernameAlreadyExists):
			gctx.JSON(http.StatusConflict, web.Error(err))
		case errors.Is(err, domain.ErrBusy):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: accountData{Account: domain.NewWithoutSecrets(account)},
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login handles http request to authenticate and issue an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	account, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(account.Username, h.accessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt,
		Data:                 accountData{Account: domain.NewWithoutSecrets(account)},
	})
}

type accountData struct {
	Account domain.WithoutSecrets `json:"account"`
}

type accountURI struct {
	AccountNumber int64 `uri:"number" binding:"required,min=1"`
}

// ownedAccount loads the account from the uri and verifies that it belongs
// to the authenticated user. On failure it writes the error response and
// returns false.
func (h *Handler) ownedAccount(gctx *gin.Context) (domain.Account, bool) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return domain.Account{}, false
	}

	account, err := h.service.Get(ctx, uri.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return domain.Account{}, false
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return domain.Account{}, false
	}

	authPayload := gctx.MustGet(middleware.AuthorizationPayloadKey).(*tokenpkg.Payload)
	if account.Username != authPayload.Username {
		l.Warn().Int64("account_number", account.AccountNumber).Msg("account owner mismatch")
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))

		return domain.Account{}, false
	}

	return account, true
}

// verifyPIN checks the transaction pin, writing the error response on failure.
func (h *Handler) verifyPIN(gctx *gin.Context, accountNumber int64, pin string) bool {
	err := h.service.VerifyPIN(gctx.Request.Context(), accountNumber, pin)
	if err == nil {
		return true
	}

	if errors.Is(err, domain.ErrWrongPIN) {
		gctx.JSON(http.StatusUnauthorized, web.Error(err))
		return false
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

	return false
}

// Get handles http request to get an account.
func (h *Handler) Get(gctx *gin.Context) {
	account, ok := h.ownedAccount(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: accountData{Account: domain.NewWithoutSecrets(account)},
	})
}

type balanceData struct {
	AccountNumber int64           `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

// GetBalance handles http request to get the current account balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := h.ownedAccount(gctx)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(ctx, account.AccountNumber)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: balanceData{AccountNumber: account.AccountNumber, Balance: balance},
	})
}

type historyData struct {
	Entries []domain.Entry `json:"entries"`
}

// ListHistory handles http request to list account history, newest first.
func (h *Handler) ListHistory(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := h.ownedAccount(gctx)
	if !ok {
		return
	}

	entries, err := h.service.ListHistory(ctx, account.AccountNumber)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: historyData{Entries: entries},
	})
}

type moveMoneyRequest struct {
	Amount         string `json:"amount" binding:"required"`
	TransactionPIN string `json:"transaction_pin" binding:"required,len=4,numeric"`
}

// Deposit handles http request to deposit money into an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := h.ownedAccount(gctx)
	if !ok {
		return
	}

	var req moveMoneyRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	if !h.verifyPIN(gctx, account.AccountNumber, req.TransactionPIN) {
		return
	}

	updated, err := h.service.Deposit(ctx, account.AccountNumber, req.Amount)
	if err != nil {
		writeMoneyError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: accountData{Account: domain.NewWithoutSecrets(updated)},
	})
}

// Withdraw handles http request to withdraw money from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := h.ownedAccount(gctx)
	if !ok {
		return
	}

	var req moveMoneyRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	if !h.verifyPIN(gctx, account.AccountNumber, req.TransactionPIN) {
		return
	}

	updated, err := h.service.Withdraw(ctx, account.AccountNumber, req.Amount)
	if err != nil {
		writeMoneyError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: accountData{Account: domain.NewWithoutSecrets(updated)},
	})
}

type transferRequest struct {
	FromAccountNumber int64  `json:"from_account_number" binding:"required,min=1"`
	ToAccountNumber   int64  `json:"to_account_number" binding:"required,min=1,nefield=FromAccountNumber"`
	Amount            string `json:"amount" binding:"required"`
	TransactionPIN    string `json:"transaction_pin" binding:"required,len=4,numeric"`
}

type transferData struct {
	FromAccount domain.WithoutSecrets `json:"from_account"`
	ToAccount   domain.WithoutSecrets `json:"to_account"`
	FromEntry   domain.Entry          `json:"from_entry"`
	ToEntry     domain.Entry          `json:"to_entry"`
}

// Transfer handles http request to transfer money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	sender, err := h.service.Get(ctx, req.FromAccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthorizationPayloadKey).(*tokenpkg.Payload)
	if sender.Username != authPayload.Username {
		l.Warn().Int64("account_number", sender.AccountNumber).Msg("account owner mismatch")
		gctx.JSON(http.StatusUnauthorized, web.Error(domain.ErrAccountOwnerMismatch))

		return
	}

	if !h.verifyPIN(gctx, sender.AccountNumber, req.TransactionPIN) {
		return
	}

	result, err := h.service.Transfer(ctx, req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	if err != nil {
		writeMoneyError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: transferData{
			FromAccount: domain.NewWithoutSecrets(result.FromAccount),
			ToAccount:   domain.NewWithoutSecrets(result.ToAccount),
			FromEntry:   result.FromEntry,
			ToEntry:     result.ToEntry,
		},
	})
}

func writeMoneyError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrSelfTransfer):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrAccountNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errors.Is(err, domain.ErrInsufficientBalance):
		gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
	case errors.Is(err, domain.ErrBusy):
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
