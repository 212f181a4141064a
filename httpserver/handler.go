package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"

	"github.com/veriledger/registry-attestation-backend/accesscontrol"
	"github.com/veriledger/registry-attestation-backend/api"
	"github.com/veriledger/registry-attestation-backend/attestation"
	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
	"github.com/veriledger/registry-attestation-backend/metrics"
	"github.com/veriledger/registry-attestation-backend/registry"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler translates HTTP requests into ledger operations. Every mutating
// route requires the caller identity header; the failure taxonomy maps onto
// HTTP status codes so clients can distinguish retryable conditions.
type Handler struct {
	access      *accesscontrol.Ledger
	registry    *registry.Engine
	attestation *attestation.Engine
	env         *ledger.Env
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewHandler creates an HTTP handler over the three engines and their
// shared execution environment.
func NewHandler(access *accesscontrol.Ledger, reg *registry.Engine, att *attestation.Engine, env *ledger.Env, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		access:      access,
		registry:    reg,
		attestation: att,
		env:         env,
		metrics:     m,
		log:         log,
	}
}

// caller parses the identity header. Mutating operations fail without it.
func (h *Handler) caller(r *http.Request) (interfaces.Account, error) {
	raw := r.Header.Get(api.CallerHeader)
	if raw == "" {
		return interfaces.ZeroAccount, errors.New("missing " + api.CallerHeader + " header")
	}
	return interfaces.NewAccountFromHex(raw)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("failed to encode response", "err", err)
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

// writeError maps the failure taxonomy onto HTTP statuses: adjust-and-retry
// conditions get 4xx input/payment codes, state conflicts get 409.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interfaces.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, interfaces.ErrInsufficientFee), errors.Is(err, ledger.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, interfaces.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, interfaces.ErrInvalidState), errors.Is(err, interfaces.ErrReentrant):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrTransferRejected):
		status = http.StatusConflict
	}
	h.writeStatus(w, status, err)
}

func bigToHex(b *big.Int) *hexutil.Big {
	if b == nil {
		return nil
	}
	return (*hexutil.Big)(b)
}

func pathID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

func pathAccount(r *http.Request) (interfaces.Account, error) {
	return interfaces.NewAccountFromHex(chi.URLParam(r, "account"))
}

// HandleRegisterItem handles POST /api/v1/items.
func (h *Handler) HandleRegisterItem(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.RegisterItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.registry.RegisterItem(h.env.Call(caller), req.URI, req.Category)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.ItemsRegistered.Inc()
	h.writeJSON(w, http.StatusCreated, api.RegisterItemResponse{ID: id})
}

// HandleModerateItem handles POST /api/v1/items/{id}/moderate.
func (h *Handler) HandleModerateItem(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.ModerateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.registry.ModerateItem(h.env.Call(caller), id, req.Verified, req.Active); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.ItemsModerated.Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDeactivateItem handles POST /api/v1/items/{id}/deactivate.
func (h *Handler) HandleDeactivateItem(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := h.registry.DeactivateOwnItem(h.env.Call(caller), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.ItemsDeactivated.Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// HandleGetItem handles GET /api/v1/items/{id}.
func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	item, err := h.registry.GetItem(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

// HandleItemsOf handles GET /api/v1/accounts/{account}/items.
func (h *Handler) HandleItemsOf(w http.ResponseWriter, r *http.Request) {
	account, err := pathAccount(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.IDListResponse{IDs: h.registry.ItemsOf(account)})
}

// HandleGrantRole handles POST /api/v1/roles/grant.
func (h *Handler) HandleGrantRole(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.RoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.access.GrantRole(h.env.Call(caller), req.Account, req.Role); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.RolesGranted.Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

// HandleRevokeRole handles POST /api/v1/roles/revoke.
func (h *Handler) HandleRevokeRole(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.RoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.access.RevokeRole(h.env.Call(caller), req.Account, req.Role); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.RolesRevoked.Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// HandleTransferOwnership handles POST /api/v1/owner/transfer.
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.TransferOwnershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.access.TransferOwnership(h.env.Call(caller), req.NewOwner); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.OwnerResponse{Owner: req.NewOwner})
}

// HandleGetOwner handles GET /api/v1/owner.
func (h *Handler) HandleGetOwner(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, api.OwnerResponse{Owner: h.access.Owner()})
}

// HandleCreateDocument handles POST /api/v1/documents.
func (h *Handler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.CreateDocumentRequest
	if !h.decode(w, r, &req) {
		return
	}

	call := h.env.PaidCall(caller, (*big.Int)(req.Value))
	id, err := h.attestation.CreateDocument(call, req.DocumentHash, req.RequiredSigners)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.DocumentsCreated.Inc()
	h.writeJSON(w, http.StatusCreated, api.CreateDocumentResponse{ID: id})
}

// HandleSignDocument handles POST /api/v1/documents/{id}/sign.
func (h *Handler) HandleSignDocument(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := h.attestation.SignDocument(h.env.Call(caller), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.DocumentsSigned.Inc()

	// A document completes on exactly one successful signature, so checking
	// the flag after a successful sign counts each completion once.
	doc, err := h.attestation.GetDocumentDetails(id)
	if err == nil && doc.Completed {
		h.metrics.DocumentsCompleted.Inc()
	}
	h.writeJSON(w, http.StatusOK, doc)
}

// HandleRevokeDocument handles POST /api/v1/documents/{id}/revoke.
func (h *Handler) HandleRevokeDocument(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := h.attestation.RevokeDocument(h.env.Call(caller), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.DocumentsRevoked.Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// HandleGetDocument handles GET /api/v1/documents/{id}.
func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	doc, err := h.attestation.GetDocumentDetails(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

// HandleSignerStatus handles GET /api/v1/documents/{id}/signers/{account}.
func (h *Handler) HandleSignerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	account, err := pathAccount(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	required, err := h.attestation.IsRequiredSigner(id, account)
	if err != nil {
		h.writeError(w, err)
		return
	}
	signed, err := h.attestation.HasUserSigned(id, account)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.SignerStatusResponse{Required: required, Signed: signed})
}

// HandleUserDocuments handles GET /api/v1/accounts/{account}/documents.
func (h *Handler) HandleUserDocuments(w http.ResponseWriter, r *http.Request) {
	account, err := pathAccount(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.IDListResponse{IDs: h.attestation.UserDocuments(account)})
}

// HandleSignerDocuments handles GET /api/v1/accounts/{account}/signed-documents.
func (h *Handler) HandleSignerDocuments(w http.ResponseWriter, r *http.Request) {
	account, err := pathAccount(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.IDListResponse{IDs: h.attestation.SignerDocuments(account)})
}

// HandleSetFee handles POST /api/v1/fees.
func (h *Handler) HandleSetFee(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	var req api.FeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.attestation.SetStorageFee(h.env.Call(caller), (*big.Int)(req.Fee)); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleGetFee handles GET /api/v1/fees.
func (h *Handler) HandleGetFee(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, api.FeeResponse{
		Fee:             bigToHex(h.attestation.StorageFee()),
		TreasuryBalance: bigToHex(h.attestation.TreasuryBalance()),
	})
}

// HandleWithdrawFees handles POST /api/v1/fees/withdraw.
func (h *Handler) HandleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}

	amount, err := h.attestation.WithdrawFees(h.env.Call(caller))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.FeeWithdrawals.Inc()
	h.writeJSON(w, http.StatusOK, api.WithdrawResponse{Amount: bigToHex(amount)})
}

// HandleEvents handles GET /api/v1/events?from=N&name=EventName.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	journal := h.env.Journal()

	var records []ledger.Record
	if name := r.URL.Query().Get("name"); name != "" {
		records = journal.ByName(name)
	} else {
		var from uint64
		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				h.writeStatus(w, http.StatusBadRequest, err)
				return
			}
			from = parsed
		}
		records = journal.Records(from)
	}
	h.writeJSON(w, http.StatusOK, api.EventsResponse{
		Head:    journal.Head().Hex(),
		Records: records,
	})
}

// HandleFund handles POST /api/v1/bank/fund. Owner-gated development
// faucet simulating the environment's native value supply.
func (h *Handler) HandleFund(w http.ResponseWriter, r *http.Request) {
	caller, err := h.caller(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	if caller != h.access.Owner() {
		h.writeError(w, interfaces.ErrUnauthorized)
		return
	}
	var req api.FundRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Account == interfaces.ZeroAccount || req.Amount == nil {
		h.writeError(w, interfaces.ErrInvalidInput)
		return
	}

	h.env.Bank().Mint(req.Account, (*big.Int)(req.Amount))
	h.writeJSON(w, http.StatusOK, api.BalanceResponse{
		Account: req.Account,
		Balance: bigToHex(h.env.Bank().BalanceOf(req.Account)),
	})
}

// HandleBalance handles GET /api/v1/bank/{account}.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	account, err := pathAccount(r)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.BalanceResponse{
		Account: account,
		Balance: bigToHex(h.env.Bank().BalanceOf(account)),
	})
}
