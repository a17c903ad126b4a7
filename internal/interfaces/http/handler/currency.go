package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CurrencyService is the exchange-rate use cases
type CurrencyService interface {
	ListRates(ctx context.Context) (*pricingapp.RatesResponse, error)
	UpsertRate(ctx context.Context, currency string, req pricingapp.UpsertRateRequest, by *uuid.UUID) (*pricingapp.RateResponse, error)
	Convert(ctx context.Context, req pricingapp.ConvertRequest) (*pricingapp.ConvertResponse, error)
}

// CurrencyHandler handles exchange-rate endpoints
type CurrencyHandler struct {
	BaseHandler
	currencyService CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(currencyService CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// ListRates handles GET /currency/rates
//
//	@Summary		List exchange rates
//	@Tags			currency
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=pricingapp.RatesResponse}
//	@Failure		500	{object}	dto.Response
//	@Router			/currency/rates [get]
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	rates, err := h.currencyService.ListRates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// Convert handles GET /currency/convert?amount=&from=&to=
//
//	@Summary		Convert an amount between currencies
//	@Tags			currency
//	@Produce		json
//	@Param			req	query		pricingapp.ConvertRequest	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=pricingapp.ConvertResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/currency/convert [get]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req pricingapp.ConvertRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.currencyService.Convert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpsertRate handles PUT /admin/currency/rates/:currency
//
//	@Summary		Override an exchange rate
//	@Tags			currency
//	@Accept			json
//	@Produce		json
//	@Param			currency	path		string	true	"Currency code"
//	@Param			request	body		pricingapp.UpsertRateRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=pricingapp.RateResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/currency/rates/{currency} [put]
func (h *CurrencyHandler) UpsertRate(c *gin.Context) {
	var req pricingapp.UpsertRateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	var by *uuid.UUID
	if id, ok := middleware.CurrentUserID(c); ok {
		by = &id
	}
	rate, err := h.currencyService.UpsertRate(c.Request.Context(), strings.ToUpper(c.Param("currency")), req, by)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}
