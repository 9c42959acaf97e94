package handlers

import (
	"fmt"

	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/export"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CashflowHandler handles the cash-flow ledger endpoints
type CashflowHandler struct {
	cashflowService *services.CashflowService
	feed            *services.ChangeFeedService
}

// NewCashflowHandler creates a new cash-flow handler
func NewCashflowHandler(cashflowService *services.CashflowService, feed *services.ChangeFeedService) *CashflowHandler {
	return &CashflowHandler{
		cashflowService: cashflowService,
		feed:            feed,
	}
}

func ledgerInput(c *fiber.Ctx) services.LedgerInput {
	return services.LedgerInput{
		Type:  c.Query("type"),
		Party: c.Query("party"),
	}
}

// List returns the ledger with running balances
// @Summary Cash-flow ledger
// @Description Entries newest first with the running balance, totals and the party list
// @Tags Cashflow
// @Produce json
// @Security BearerAuth
// @Param type query string false "Inflow, Outflow or All"
// @Param party query string false "Party name or All"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /cashflow [get]
func (h *CashflowHandler) List(c *fiber.Ctx) error {
	view, err := h.cashflowService.Ledger(c.Context(), ledgerInput(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to load cash flow")
	}

	return response.Success(c, "Cash flow retrieved successfully", view)
}

// Create records a ledger entry
// @Summary Add cash-flow entry
// @Description Entries are immutable once recorded. Date defaults to today.
// @Tags Cashflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEntryInput true "Entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /cashflow [post]
func (h *CashflowHandler) Create(c *fiber.Ctx) error {
	var req services.CreateEntryInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.cashflowService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to add entry")
	}

	return response.Created(c, fmt.Sprintf("%s of %s recorded", result.Entry.Type, result.FormattedAmount), result)
}

// Export downloads the ledger as a spreadsheet
// @Summary Export ledger
// @Description The filtered ledger as an .xlsx workbook
// @Tags Cashflow
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param type query string false "Inflow, Outflow or All"
// @Param party query string false "Party name or All"
// @Success 200 {file} file
// @Failure 400 {object} response.Response
// @Router /cashflow/export [get]
func (h *CashflowHandler) Export(c *fiber.Ctx) error {
	data, name, err := h.cashflowService.Export(c.Context(), ledgerInput(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to export cash flow")
	}

	c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}

// Archive stores the exported ledger and returns a download link
// @Summary Archive ledger export
// @Description Uploads the .xlsx workbook to object storage and returns a presigned URL
// @Tags Cashflow
// @Produce json
// @Security BearerAuth
// @Param type query string false "Inflow, Outflow or All"
// @Param party query string false "Party name or All"
// @Success 201 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /cashflow/export/archive [post]
func (h *CashflowHandler) Archive(c *fiber.Ctx) error {
	result, err := h.cashflowService.Archive(c.Context(), ledgerInput(c), middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to archive cash flow")
	}

	return response.Created(c, "Cash flow archived successfully", result)
}

// Stream sends a notification whenever the ledger changes
// @Summary Ledger change stream
// @Description Server-sent events on the cashflow topic
// @Tags Cashflow
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Router /cashflow/stream [get]
func (h *CashflowHandler) Stream(c *fiber.Ctx) error {
	return streamChanges(c, h.feed, domain.TopicCashflow)
}
