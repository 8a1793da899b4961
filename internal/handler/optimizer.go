// internal/handler/optimizer.go
package handler

import (
	"card-optimizer/internal/auth"
	"card-optimizer/internal/catalog"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/importer"
	"card-optimizer/internal/metrics"
	"card-optimizer/internal/middleware"
	"card-optimizer/internal/money"
	"card-optimizer/internal/optimizer"
	"card-optimizer/internal/scenario"
	"card-optimizer/internal/storage"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	val "card-optimizer/internal/validator"

	"github.com/gin-gonic/gin"
)

type OptimizerHandler struct {
	store   storage.WorkspaceStorage
	tokens  *auth.TokenService
	metrics *metrics.Recorder
}

func NewOptimizerHandler(store storage.WorkspaceStorage, tokens *auth.TokenService, rec *metrics.Recorder) *OptimizerHandler {
	return &OptimizerHandler{store: store, tokens: tokens, metrics: rec}
}

// Login godoc
// @Summary Exchange the API key for a bearer token
// @Param request body LoginRequest true "API key"
// @Success 200 {object} map[string]string{"token":"..."}
// @Failure 401 {object} map[string]string
// @Router /api/v1/login [post]
func (h *OptimizerHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	token, err := h.tokens.Login(req.APIKey, req.Client)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidAPIKey) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		slog.Error("Token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Categories godoc
// @Summary List spend categories and the card multiplier keys they match
// @Router /api/v1/categories [get]
func (h *OptimizerHandler) Categories(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, cat := range optimizer.Categories() {
		out = append(out, gin.H{"category": cat, "keys": optimizer.ResolveCategories(cat)})
	}
	c.JSON(http.StatusOK, out)
}

// Score godoc
// @Summary Rank every card of the catalog for one spend
// @Param request body ScoreRequest true "Category and amount"
// @Success 200 {object} ScoreResponse
// @Router /api/v1/score [post]
func (h *OptimizerHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cards, err := h.store.ListCards(c.Request.Context())
	if err != nil {
		internalError(c, "ListCards failed", err)
		return
	}

	options := optimizer.CardOptions(req.Amount, req.Category, cards)
	resp := ScoreResponse{
		Category:   req.Category,
		Amount:     req.Amount,
		Candidates: optimizer.ResolveCategories(req.Category),
		Options:    options,
	}
	if len(options) > 0 {
		resp.Best = &options[0]
	}
	c.JSON(http.StatusOK, resp)
}

// === Catalog ===

func (h *OptimizerHandler) ListCards(c *gin.Context) {
	cards, err := h.store.ListCards(c.Request.Context())
	if err != nil {
		internalError(c, "ListCards failed", err)
		return
	}
	out := make([]CardView, len(cards))
	for i, card := range cards {
		out[i] = CardView{Card: card, Multipliers: catalog.Describe(card)}
	}
	c.JSON(http.StatusOK, out)
}

// ReplaceCards godoc
// @Summary Replace the whole catalog
// @Description Body uses the reference format {"credit_cards": [...]} or a bare array
// @Router /api/v1/cards [put]
func (h *OptimizerHandler) ReplaceCards(c *gin.Context) {
	cards, err := catalog.Decode(c.Request.Body)
	if err != nil && !errors.Is(err, catalog.ErrNoCards) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.ReplaceCards(c.Request.Context(), cards); err != nil {
		internalError(c, "ReplaceCards failed", err)
		return
	}
	slog.Info("Catalog replaced", "cards", len(cards), "client", client(c))
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cards": len(cards)})
}

// UpsertCard godoc
// @Summary Add a card or replace the card with the same name
// @Param request body CardRequest true "Card"
// @Router /api/v1/cards [post]
func (h *OptimizerHandler) UpsertCard(c *gin.Context) {
	var req CardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	card := req.toDomain()
	if err := h.store.UpsertCard(c.Request.Context(), card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slog.Info("Card saved", "card", card.Name, "annual_fee", card.AnnualFee, "client", client(c))
	c.JSON(http.StatusOK, card)
}

func (h *OptimizerHandler) DeleteCard(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.DeleteCard(c.Request.Context(), name); err != nil {
		storeError(c, "DeleteCard failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// === Transactions ===

func (h *OptimizerHandler) ListTransactions(c *gin.Context) {
	txns, err := h.store.ListTransactions(c.Request.Context())
	if err != nil {
		internalError(c, "ListTransactions failed", err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

// AddTransactions godoc
// @Summary Append transactions to the history
// @Param request body TransactionsRequest true "Transactions"
// @Router /api/v1/transactions [post]
func (h *OptimizerHandler) AddTransactions(c *gin.Context) {
	var req TransactionsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	added, err := h.store.AddTransactions(c.Request.Context(), req.toDomain())
	if err != nil {
		internalError(c, "AddTransactions failed", err)
		return
	}
	c.JSON(http.StatusOK, added)
}

// ImportTransactions godoc
// @Summary Import a CSV export (date, vendor, category, price)
// @Param replace query bool false "Replace the history instead of appending"
// @Router /api/v1/transactions/import [post]
func (h *OptimizerHandler) ImportTransactions(c *gin.Context) {
	res, err := importer.Parse(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if c.Query("replace") == "true" {
		_, err = h.store.ReplaceTransactions(ctx, res.Transactions)
	} else {
		_, err = h.store.AddTransactions(ctx, res.Transactions)
	}
	if err != nil {
		internalError(c, "Import failed", err)
		return
	}

	slog.Info("Transactions imported", "imported", len(res.Transactions), "dropped", res.Dropped, "client", client(c))
	c.JSON(http.StatusOK, gin.H{"imported": len(res.Transactions), "dropped": res.Dropped})
}

func (h *OptimizerHandler) DeleteTransaction(c *gin.Context) {
	if err := h.store.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, "DeleteTransaction failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// === Planned purchases ===

func (h *OptimizerHandler) ListPlanned(c *gin.Context) {
	planned, err := h.store.ListPlanned(c.Request.Context())
	if err != nil {
		internalError(c, "ListPlanned failed", err)
		return
	}
	c.JSON(http.StatusOK, planned)
}

func (h *OptimizerHandler) AddPlanned(c *gin.Context) {
	var req TransactionsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	added, err := h.store.AddPlanned(c.Request.Context(), req.toDomain())
	if err != nil {
		internalError(c, "AddPlanned failed", err)
		return
	}
	c.JSON(http.StatusOK, added)
}

func (h *OptimizerHandler) ClearPlanned(c *gin.Context) {
	if err := h.store.ClearPlanned(c.Request.Context()); err != nil {
		internalError(c, "ClearPlanned failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Portfolio godoc
// @Summary Best card per transaction and portfolio totals
// @Param include_planned query bool false "Include planned purchases (default true)"
// @Success 200 {object} PortfolioResponse
// @Router /api/v1/portfolio [get]
func (h *OptimizerHandler) Portfolio(c *gin.Context) {
	ws, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		internalError(c, "Snapshot failed", err)
		return
	}

	txns := ws.Transactions
	if c.DefaultQuery("include_planned", "true") != "false" {
		txns = append(txns, ws.Planned...)
	}

	started := time.Now()
	summary, rows := optimizer.Aggregate(txns, ws.Cards)
	h.metrics.ObserveAggregate(metrics.ModeSpreadsheet, started, summary.Skipped)

	c.JSON(http.StatusOK, PortfolioResponse{Summary: summary, Rows: rows})
}

// Compare godoc
// @Summary Portfolio with and without planned purchases
// @Router /api/v1/compare [get]
func (h *OptimizerHandler) Compare(c *gin.Context) {
	ctx := c.Request.Context()
	ws, err := h.store.Snapshot(ctx)
	if err != nil {
		internalError(c, "Snapshot failed", err)
		return
	}

	started := time.Now()
	cmp, err := scenario.Compare(ctx, ws.Cards, ws.Transactions, ws.Planned)
	if err != nil {
		internalError(c, "Compare failed", err)
		return
	}
	h.metrics.ObserveAggregate(metrics.ModeCompare, started, cmp.WithPlanned.Summary.Skipped)
	c.JSON(http.StatusOK, cmp)
}

// === Monthly spend ===

func (h *OptimizerHandler) GetSpend(c *gin.Context) {
	spend, err := h.store.GetSpend(c.Request.Context())
	if err != nil {
		internalError(c, "GetSpend failed", err)
		return
	}
	c.JSON(http.StatusOK, spend)
}

// SaveSpend godoc
// @Summary Replace (PUT) or merge (PATCH) the monthly spend per category
// @Param request body SpendRequest true "Spend"
// @Router /api/v1/spend [put]
func (h *OptimizerHandler) SaveSpend(c *gin.Context) {
	var req SpendRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var err error
	if c.Request.Method == http.MethodPatch {
		err = h.store.PatchSpend(ctx, req.toDomain())
	} else {
		err = h.store.SetSpend(ctx, req.toDomain())
	}
	if err != nil {
		internalError(c, "SaveSpend failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SpendPlan godoc
// @Summary Best card per category for the monthly spend
// @Success 200 {object} PortfolioResponse
// @Router /api/v1/spend/plan [get]
func (h *OptimizerHandler) SpendPlan(c *gin.Context) {
	ws, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		internalError(c, "Snapshot failed", err)
		return
	}

	started := time.Now()
	summary, rows := optimizer.AggregateSpend(ws.Spend, ws.Cards)
	h.metrics.ObserveAggregate(metrics.ModeMonthly, started, summary.Skipped)

	c.JSON(http.StatusOK, PortfolioResponse{Summary: summary, Rows: rows})
}

// SpendByCategory godoc
// @Summary Spend totals per category
// @Param month query string false "YYYY-MM or all"
// @Router /api/v1/spend/by-category [get]
func (h *OptimizerHandler) SpendByCategory(c *gin.Context) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}
	q.Month = strings.ToLower(strings.TrimSpace(q.Month))
	if err := val.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns, err := h.store.ListTransactions(c.Request.Context())
	if err != nil {
		internalError(c, "ListTransactions failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"months": optimizer.Months(txns),
		"totals": optimizer.SpendByCategory(txns, q.Month),
	})
}

// SpendAverages godoc
// @Summary Average monthly spend per category from the history
// @Router /api/v1/spend/averages [get]
func (h *OptimizerHandler) SpendAverages(c *gin.Context) {
	txns, err := h.store.ListTransactions(c.Request.Context())
	if err != nil {
		internalError(c, "ListTransactions failed", err)
		return
	}
	avg := optimizer.MonthlyAverages(txns)
	if avg == nil {
		avg = []domain.CategorySpend{}
	}
	c.JSON(http.StatusOK, avg)
}

// === DTO ===

type LoginRequest struct {
	APIKey string `json:"api_key" validate:"required"`
	Client string `json:"client"`
}

// MonthQuery: пустой месяц или "all" означает все месяцы.
type MonthQuery struct {
	Month string `form:"month" validate:"omitempty,yearmonth|eq=all"`
}

type ScoreRequest struct {
	Category string  `json:"category" validate:"required,notblank"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

type ScoreResponse struct {
	Category   string              `json:"category"`
	Amount     float64             `json:"amount"`
	Candidates []string            `json:"candidates"`
	Best       *domain.CardOption  `json:"best,omitempty"`
	Options    []domain.CardOption `json:"options"`
}

type CardView struct {
	domain.Card
	Multipliers string `json:"multipliers_readable"`
}

// AnnualFee принимает и строку ("$95"), и число.
type CardRequest struct {
	Name                string             `json:"card_name" validate:"required,notblank"`
	Network             string             `json:"network"`
	AnnualFee           any                `json:"annual_fee"`
	BaseRate            float64            `json:"base_rate" validate:"gte=0,lte=100"`
	CategoryMultipliers map[string]float64 `json:"category_multipliers" validate:"omitempty,dive,keys,notblank,endkeys,gte=0,lte=100"`
}

func (r CardRequest) toDomain() domain.Card {
	multipliers := make(map[string]float64, len(r.CategoryMultipliers))
	for k, v := range r.CategoryMultipliers {
		multipliers[strings.TrimSpace(k)] = v
	}
	return domain.Card{
		Name:                strings.TrimSpace(r.Name),
		Network:             r.Network,
		AnnualFee:           money.ParseFee(r.AnnualFee),
		BaseRate:            r.BaseRate,
		CategoryMultipliers: multipliers,
	}
}

type TransactionRequest struct {
	Date     string  `json:"date" validate:"required,isodate"`
	Vendor   string  `json:"vendor" validate:"required,notblank"`
	Category string  `json:"category" validate:"required,spendcategory"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

type TransactionsRequest struct {
	Transactions []TransactionRequest `json:"transactions" validate:"required,min=1,dive"`
}

func (r TransactionsRequest) toDomain() []domain.Transaction {
	out := make([]domain.Transaction, len(r.Transactions))
	for i, t := range r.Transactions {
		// формат даты уже проверен валидатором
		date, _ := time.Parse("2006-01-02", t.Date)
		out[i] = domain.Transaction{
			Date:     date,
			Vendor:   strings.TrimSpace(t.Vendor),
			Category: strings.ToLower(strings.TrimSpace(t.Category)),
			Amount:   t.Amount,
		}
	}
	return out
}

type SpendRequest struct {
	Spend []struct {
		Category string  `json:"category" validate:"required,spendcategory"`
		Amount   float64 `json:"amount" validate:"gte=0"`
	} `json:"spend" validate:"required,min=1,dive"`
}

func (r SpendRequest) toDomain() []domain.CategorySpend {
	out := make([]domain.CategorySpend, len(r.Spend))
	for i, s := range r.Spend {
		out[i] = domain.CategorySpend{Category: s.Category, Amount: s.Amount}
	}
	return out
}

type PortfolioResponse struct {
	Summary domain.PortfolioSummary    `json:"summary"`
	Rows    []domain.RecommendationRow `json:"rows"`
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	if err := val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func storeError(c *gin.Context, msg string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	internalError(c, msg, err)
}

func internalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "path", c.FullPath(), "client", client(c))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}

// client возвращает метку клиента из токена, пустую на публичных маршрутах.
func client(c *gin.Context) string {
	return c.GetString(middleware.ClientKey)
}
