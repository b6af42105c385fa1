// Package walletdelivery manages delivery layer of wallets.
package walletdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-petr/family-wallet/pkg/errorspkg"
	"github.com/go-petr/family-wallet/pkg/moneypkg"
	"github.com/go-petr/family-wallet/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by wallet delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package walletdelivery
type Service interface {
	Create(ctx context.Context, userID int32, initialBalance int64) (domain.Wallet, error)
	Get(ctx context.Context, walletID int32) (domain.Wallet, error)
	Deposit(ctx context.Context, walletID int32, amount int64) (domain.Wallet, error)
	RecordExpense(ctx context.Context, walletID int32, amount int64, description string) (domain.Wallet, error)
	SetWeeklyAllowance(ctx context.Context, walletID int32, amount int64) (domain.Wallet, error)
	ApplyAllowance(ctx context.Context, walletID int32) (domain.Wallet, error)
}

// Handler facilitates wallet delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns wallet handler.
func NewHandler(ws Service) *Handler {
	return &Handler{service: ws}
}

// walletResponse renders amounts as decimal strings.
type walletResponse struct {
	ID                int32      `json:"id"`
	UserID            int32      `json:"user_id"`
	Balance           string     `json:"balance"`
	WeeklyAllowance   string     `json:"weekly_allowance"`
	LastAllowanceDate *time.Time `json:"last_allowance_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func newWalletResponse(w domain.Wallet) walletResponse {
	return walletResponse{
		ID:                w.ID,
		UserID:            w.UserID,
		Balance:           moneypkg.Display(w.Balance),
		WeeklyAllowance:   moneypkg.Display(w.WeeklyAllowance),
		LastAllowanceDate: w.LastAllowanceDate,
		CreatedAt:         w.CreatedAt,
	}
}

type data struct {
	Wallet walletResponse `json:"wallet"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

func bindingError(gctx *gin.Context, l *zerolog.Logger, err error) {
	l.Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

func walletError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrWalletNotFound, domain.ErrUserNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrWalletAlreadyExists, domain.ErrAllowanceAlreadyApplied:
		gctx.JSON(http.StatusConflict, web.Error(err))
	case domain.ErrNegativeAmount, domain.ErrNonPositiveAmount,
		domain.ErrInsufficientBalance, domain.ErrAllowanceNotSet:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type uriRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

type createRequest struct {
	UserID         int32  `json:"user_id" binding:"required,min=1"`
	InitialBalance string `json:"initial_balance"`
}

// Create handles http request to create a wallet.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, l, err)

		return
	}

	initialBalance := int64(0)

	if req.InitialBalance != "" {
		var err error

		initialBalance, err = moneypkg.Parse(req.InitialBalance)
		if err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}
	}

	wallet, err := h.service.Create(ctx, req.UserID, initialBalance)
	if err != nil {
		walletError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}

// Get handles http request to get a wallet.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		bindingError(gctx, l, err)

		return
	}

	wallet, err := h.service.Get(ctx, req.ID)
	if err != nil {
		walletError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Deposit handles http request to add funds to a wallet.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindingError(gctx, l, err)

		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, l, err)

		return
	}

	amount, err := moneypkg.Parse(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	wallet, err := h.service.Deposit(ctx, uri.ID, amount)
	if err != nil {
		walletError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}

type expenseRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// RecordExpense handles http request to withdraw funds from a wallet.
func (h *Handler) RecordExpense(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindingError(gctx, l, err)

		return
	}

	var req expenseRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, l, err)

		return
	}

	amount, err := moneypkg.Parse(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	wallet, err := h.service.RecordExpense(ctx, uri.ID, amount, req.Description)
	if err != nil {
		walletError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}

// SetAllowance handles http request to set the weekly allowance.
func (h *Handler) SetAllowance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindingError(gctx, l, err)

		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindingError(gctx, l, err)

		return
	}

	amount, err := moneypkg.Parse(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	wallet, err := h.service.SetWeeklyAllowance(ctx, uri.ID, amount)
	if err != nil {
		walletError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}

// ApplyAllowance handles http request to credit the weekly allowance.
func (h *Handler) ApplyAllowance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindingError(gctx, l, err)

		return
	}

	wallet, err := h.service.ApplyAllowance(ctx, uri.ID)
	if err != nil {
		walletError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{newWalletResponse(wallet)}})
}
