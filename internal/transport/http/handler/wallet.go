package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ledger-service/internal/models"
	"ledger-service/internal/repositories/postgresrepo"
	"ledger-service/internal/services"

	_ "ledger-service/docs"

	"github.com/go-playground/validator"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Ledger struct {
	walletService     *services.WalletService
	depositService    *services.DepositService
	withdrawalService *services.WithdrawalService
	validate          *validator.Validate
}

func NewLedger(
	mux *http.ServeMux,
	walletService *services.WalletService,
	depositService *services.DepositService,
	withdrawalService *services.WithdrawalService,
) *Ledger {
	h := &Ledger{
		walletService:     walletService,
		depositService:    depositService,
		withdrawalService: withdrawalService,
		validate:          validator.New(),
	}

	mux.HandleFunc("GET /api/v1/accounts/{userId}/wallet", h.getWallet)
	mux.HandleFunc("POST /api/v1/accounts/{userId}/deposits", h.createDeposit)
	mux.HandleFunc("POST /api/v1/accounts/{userId}/withdrawals", h.createWithdrawal)
	mux.HandleFunc("GET /api/v1/accounts/{userId}/transactions", h.listTransactions)
	mux.HandleFunc("POST /api/v1/transactions/{transactionId}/resolution", h.resolveWithdrawal)

	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return h
}

// @Summary Get wallet balance
// @Description Retrieves the current balance and accrued profits of an account's wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Param userId path string true "Account ID (UUIDv4)"
// @Success 200 {object} models.WalletBalanceResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /accounts/{userId}/wallet [get]
func (h *Ledger) getWallet(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	if err := h.validate.Var(userID, "required,uuid4"); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	ctx := r.Context()
	balanceResponse, err := h.walletService.GetWalletBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresrepo.ErrWalletNotFound) {
			h.writeError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get wallet balance: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, balanceResponse)
}

// @Summary Deposit funds
// @Description Credits the wallet and records a completed deposit transaction
// @Tags deposits
// @Accept json
// @Produce json
// @Param userId path string true "Account ID (UUIDv4)"
// @Param deposit body models.DepositRequest true "Deposit Request"
// @Success 201 {object} models.DepositResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /accounts/{userId}/deposits [post]
func (h *Ledger) createDeposit(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	if err := h.validate.Var(userID, "required,uuid4"); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if !req.Amount.IsPositive() {
		h.writeError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	ctx := r.Context()
	result, err := h.depositService.Process(ctx, userID, req.Amount, req.Method, req.Reference)
	if err != nil {
		if errors.Is(err, postgresrepo.ErrWalletNotFound) {
			h.writeError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process deposit: %v", err))
		return
	}

	response := models.DepositResponse{
		TransactionID: result.TransactionID,
		Amount:        result.Amount,
		NewBalance:    result.NewBalance,
		Status:        models.TransactionStatusCompleted,
	}

	h.writeJSON(w, http.StatusCreated, response)
}

// @Summary Request a withdrawal
// @Description Runs eligibility and fee computation, debits the wallet and records the withdrawal and fee transactions
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param userId path string true "Account ID (UUIDv4)"
// @Param withdrawal body models.WithdrawalRequest true "Withdrawal Request"
// @Success 201 {object} models.WithdrawalResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /accounts/{userId}/withdrawals [post]
func (h *Ledger) createWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	if err := h.validate.Var(userID, "required,uuid4"); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	var req models.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if !req.Amount.IsPositive() {
		h.writeError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}
	if err := req.Destination.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	result, err := h.withdrawalService.Process(ctx, userID, req.Amount, req.Destination)
	if err != nil {
		if errors.Is(err, postgresrepo.ErrWalletNotFound) {
			h.writeError(w, http.StatusNotFound, "Wallet not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process withdrawal: %v", err))
		return
	}

	// Not a system fault: the eligibility gate said no.
	if !result.Eligible {
		h.writeError(w, http.StatusUnprocessableEntity, result.Reason)
		return
	}

	response := models.WithdrawalResponse{
		TransactionID: result.TransactionID,
		Amount:        result.Amount,
		Fee:           result.Fee,
		NetAmount:     result.NetAmount,
		NewBalance:    result.NewBalance,
		Status:        models.TransactionStatusPending,
	}

	h.writeJSON(w, http.StatusCreated, response)
}

// @Summary List account transactions
// @Description Returns the account's transaction history, newest first
// @Tags transactions
// @Accept json
// @Produce json
// @Param userId path string true "Account ID (UUIDv4)"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /accounts/{userId}/transactions [get]
func (h *Ledger) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	if err := h.validate.Var(userID, "required,uuid4"); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	ctx := r.Context()
	transactions, err := h.walletService.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list transactions: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

// @Summary Resolve a pending withdrawal
// @Description Approves or rejects a pending withdrawal; rejection refunds the amount and fee
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionId path string true "Transaction ID (UUIDv4)"
// @Param resolution body models.ResolutionRequest true "Resolution Request"
// @Success 204 "resolved"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /transactions/{transactionId}/resolution [post]
func (h *Ledger) resolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transactionId")

	if err := h.validate.Var(transactionID, "required,uuid4"); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	var req models.ResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctx := r.Context()
	err := h.walletService.ResolveWithdrawal(ctx, transactionID, req.Action == "approve", req.ResolvedBy)
	if err != nil {
		if errors.Is(err, postgresrepo.ErrTransactionNotFound) {
			h.writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		if errors.Is(err, services.ErrTransactionNotPending) {
			h.writeError(w, http.StatusConflict, "Transaction is not pending")
			return
		}
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to resolve withdrawal: %v", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Ledger) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// Helper for sending errors
func (h *Ledger) writeError(w http.ResponseWriter, statusCode int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(statusCode),
		"message": message,
		"code":    statusCode,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)
}
