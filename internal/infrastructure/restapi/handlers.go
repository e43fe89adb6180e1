package restapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seed_checker/internal/app/port"
	"seed_checker/internal/app/service"
	"seed_checker/internal/domain/entity"
	"seed_checker/internal/infrastructure/findingstore"
)

// SearchController управляет циклом поиска.
type SearchController interface {
	Start(ctx context.Context) error
	Stop()
	State() service.SearchState
	Stats() service.SearchStats
	Err() error
}

// FindingLister отдает последние находки.
type FindingLister interface {
	List() []entity.WalletFinding
}

// APIErrorResponse определяет структуру ответа с ошибкой.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// SearchStatusResponse описывает состояние цикла поиска.
type SearchStatusResponse struct {
	State     string `json:"state"`
	Attempts  uint64 `json:"attempts"`
	Findings  uint64 `json:"findings"`
	LastError string `json:"last_error,omitempty"`
}

// ValidateRequest тело запроса проверки мнемоники.
type ValidateRequest struct {
	Phrase string `json:"phrase" binding:"required"`
}

// ValidateResponse результат проверки мнемоники.
type ValidateResponse struct {
	Outcome string `json:"outcome"`
	Valid   bool   `json:"valid"`
}

// BalancesRequest тело запроса балансов: адрес по идентификатору сети.
type BalancesRequest struct {
	Addresses map[string]string `json:"addresses" binding:"required"`
}

// BalancesResponse результат проверки балансов. В results только сети, ответившие без ошибки.
type BalancesResponse struct {
	Results map[string]entity.BalanceResult `json:"results"`
	Funded  bool                            `json:"funded"`
}

// FindingsResponse список последних находок, новые первыми.
type FindingsResponse struct {
	Findings []findingstore.Record `json:"findings"`
}

// Handler обрабатывает HTTP запросы API.
type Handler struct {
	appCtx     context.Context // контекст приложения, переживает HTTP запрос
	search     SearchController
	findings   FindingLister
	validator  port.MnemonicValidator
	aggregator port.BalanceAggregator
	logger     port.Logger
}

// NewHandler создает новый экземпляр Handler.
func NewHandler(
	appCtx context.Context,
	search SearchController,
	findings FindingLister,
	validator port.MnemonicValidator,
	aggregator port.BalanceAggregator,
	logger port.Logger,
) *Handler {
	return &Handler{
		appCtx:     appCtx,
		search:     search,
		findings:   findings,
		validator:  validator,
		aggregator: aggregator,
		logger:     logger,
	}
}

func (h *Handler) status() SearchStatusResponse {
	stats := h.search.Stats()
	resp := SearchStatusResponse{
		State:    h.search.State().String(),
		Attempts: stats.Attempts,
		Findings: stats.Findings,
	}
	if err := h.search.Err(); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}

// GetSearchStatusHandler возвращает состояние цикла поиска.
func (h *Handler) GetSearchStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.status())
}

// StartSearchHandler запускает цикл поиска.
func (h *Handler) StartSearchHandler(c *gin.Context) {
	// Контекст запроса отменится сразу после ответа, поэтому запускаем в контексте приложения.
	err := h.search.Start(h.appCtx)
	switch {
	case err == nil:
		h.logger.Info("Поиск запущен через API", "client_ip", c.ClientIP())
		c.JSON(http.StatusAccepted, h.status())
	case errors.Is(err, entity.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, APIErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidWordCount):
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("Не удалось запустить поиск", "error", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
	}
}

// StopSearchHandler просит цикл остановиться после текущего раунда.
func (h *Handler) StopSearchHandler(c *gin.Context) {
	h.search.Stop()
	c.JSON(http.StatusOK, h.status())
}

// GetFindingsHandler возвращает последние находки.
func (h *Handler) GetFindingsHandler(c *gin.Context) {
	list := h.findings.List()
	resp := FindingsResponse{Findings: make([]findingstore.Record, 0, len(list))}
	for _, f := range list {
		resp.Findings = append(resp.Findings, findingstore.NewRecord(f))
	}
	c.JSON(http.StatusOK, resp)
}

// ValidateMnemonicHandler проверяет фразу. Невалидная фраза это не ошибка запроса.
func (h *Handler) ValidateMnemonicHandler(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	outcome := h.validator.Validate(req.Phrase)
	c.JSON(http.StatusOK, ValidateResponse{Outcome: outcome.String(), Valid: outcome == entity.Valid})
}

// CheckBalancesHandler опрашивает все сети для переданных адресов.
func (h *Handler) CheckBalancesHandler(c *gin.Context) {
	var req BalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	addresses := make(map[string]string, len(req.Addresses))
	for chain, addr := range req.Addresses {
		chain = strings.ToUpper(strings.TrimSpace(chain))
		addr = strings.TrimSpace(addr)
		if chain == "" || addr == "" {
			continue
		}
		addresses[chain] = addr
	}
	if len(addresses) == 0 {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "no addresses provided"})
		return
	}

	results := h.aggregator.CheckAll(c.Request.Context(), addresses)
	resp := BalancesResponse{Results: results}
	for _, r := range results {
		if r.HasFunds() {
			resp.Funded = true
			break
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HealthHandler отвечает 200, пока процесс жив.
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
