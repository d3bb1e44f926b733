// Package ledgerdelivery manages the HTTP delivery layer of the ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/tx-ledger/internal/csvstream"
	"github.com/go-petr/tx-ledger/internal/domain"
	"github.com/go-petr/tx-ledger/pkg/errorspkg"
	"github.com/go-petr/tx-ledger/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Apply(ctx context.Context, event domain.Event) error
	Account(ctx context.Context, clientID uint16) (domain.Account, error)
	Accounts(ctx context.Context) ([]domain.Account, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// AccountResponse renders one account snapshot row with fixed decimal precision.
type AccountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func accountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		Client:    account.ClientID,
		Available: account.Available.StringFixed(csvstream.Precision),
		Held:      account.Held.StringFixed(csvstream.Precision),
		Total:     account.Total().StringFixed(csvstream.Precision),
		Locked:    account.Locked,
	}
}

type createRequest struct {
	Type   string `json:"type" binding:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount"`
}

// Create handles http request to apply one transaction record to the ledger.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: errMsg}})

		return
	}

	event := domain.Event{
		Kind:     domain.EventKind(req.Type),
		ClientID: req.Client,
		TxID:     req.Tx,
	}

	switch event.Kind {
	case domain.EventDeposit, domain.EventWithdrawal:
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

			return
		}

		event.Amount = amount
	}

	if err := h.service.Apply(ctx, event); err != nil {
		l.Info().Err(err).Send()

		switch {
		case errors.Is(err, domain.ErrDuplicateTransaction):
			gctx.JSON(http.StatusConflict, web.Error(err))
		case errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrUnknownTransactionKind):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, domain.ErrAccountLocked):
			gctx.JSON(http.StatusLocked, web.Error(err))
		case errors.Is(err, domain.ErrInsufficientFunds),
			errors.Is(err, domain.ErrInvalidDispute),
			errors.Is(err, domain.ErrInvalidResolve),
			errors.Is(err, domain.ErrInvalidChargeback):
			gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	account, err := h.service.Account(ctx, event.ClientID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: gin.H{"account": accountResponse(account)},
	}

	gctx.JSON(http.StatusOK, res)
}

type getRequest struct {
	Client uint16 `uri:"client"`
}

// Get handles http request to get one account snapshot.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	account, err := h.service.Account(ctx, req.Client)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Data: gin.H{"account": accountResponse(account)},
	}

	gctx.JSON(http.StatusOK, res)
}

// List handles http request to list all account snapshots.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	accounts, err := h.service.Accounts(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	rows := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, accountResponse(account))
	}

	res := web.Response{
		Data: gin.H{"accounts": rows},
	}

	gctx.JSON(http.StatusOK, res)
}
