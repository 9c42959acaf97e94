package handlers

import (
	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/core/services"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles the material transactions dashboard
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func listTransactionsInput(c *fiber.Ctx) *services.ListTransactionsInput {
	return &services.ListTransactionsInput{
		Params:   pagination.GetParams(c),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Vendor:   c.Query("vendor"),
		Material: c.Query("material"),
	}
}

// List lists transactions
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Param vendor query string false "Vendor"
// @Param material query string false "Material"
// @Param status query string false "Pending, Paid, Cancelled or all"
// @Param search query string false "Vendor, material or notes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	input := listTransactionsInput(c)

	txs, total, err := h.transactionService.List(c.Context(), input)
	if err != nil {
		return handleServiceError(c, err, "Failed to list transactions")
	}

	return response.Paginated(c, "Transactions retrieved successfully", txs, pagination.GetMeta(input.Params, total))
}

// Summary returns chart totals
// @Summary Transaction totals
// @Description Totals per vendor and per material. Cancelled transactions are left out.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Router /transactions/summary [get]
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.transactionService.Summary(c.Context(), listTransactionsInput(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to summarize transactions")
	}

	return response.Success(c, "Transaction summary retrieved successfully", summary)
}

// Get gets a transaction by ID
// @Summary Get transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	tx, err := h.transactionService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get transaction")
	}

	return response.Success(c, "Transaction retrieved successfully", tx)
}

// Create records a priced purchase
// @Summary Record transaction
// @Description The server prices the purchase from the rate table
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateTransactionInput true "Transaction"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req services.CreateTransactionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.transactionService.Create(c.Context(), &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to record transaction")
	}

	return response.Created(c, "Transaction recorded successfully", tx)
}

// UpdateStatus changes a transaction's status
// @Summary Update transaction status
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param body body services.TransactionStatusInput true "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction ID")
	}

	var req services.TransactionStatusInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.transactionService.UpdateStatus(c.Context(), id, &req, middleware.Actor(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update transaction status")
	}

	return response.Success(c, "Transaction status updated successfully", tx)
}
