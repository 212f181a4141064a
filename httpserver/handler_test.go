package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriledger/registry-attestation-backend/accesscontrol"
	"github.com/veriledger/registry-attestation-backend/api"
	"github.com/veriledger/registry-attestation-backend/attestation"
	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
	"github.com/veriledger/registry-attestation-backend/metrics"
	"github.com/veriledger/registry-attestation-backend/registry"
)

var (
	ownerAcct    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	treasuryAcct = common.HexToAddress("0x00000000000000000000000000000000000000fe")
	curatorAcct  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	memberAcct   = common.HexToAddress("0x0000000000000000000000000000000000000003")
	signerAcct   = common.HexToAddress("0x0000000000000000000000000000000000000004")
)

type testStack struct {
	server *Server
	router http.Handler
	bank   *ledger.Bank
}

func newTestStack(t *testing.T, storageFee int64) *testStack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bank := ledger.NewBank()
	journal := ledger.NewJournal()
	env := ledger.NewEnv(bank, journal)

	access, err := accesscontrol.New(ownerAcct, journal, logger)
	require.NoError(t, err)
	registryEngine := registry.NewEngine(access, journal, logger)
	attestationEngine, err := attestation.NewEngine(attestation.Config{
		Owner:      access,
		Bank:       bank,
		Treasury:   treasuryAcct,
		StorageFee: big.NewInt(storageFee),
		Journal:    journal,
		Log:        logger,
	})
	require.NoError(t, err)

	m := metrics.NewWith("test", prometheus.NewRegistry())
	handler := NewHandler(access, registryEngine, attestationEngine, env, m, logger)

	server, err := New(&HTTPServerConfig{
		ListenAddr:               "127.0.0.1:0",
		Log:                      logger,
		DrainDuration:            time.Millisecond,
		GracefulShutdownDuration: time.Second,
	}, handler)
	require.NoError(t, err)

	return &testStack{server: server, router: server.Router(), bank: bank}
}

func (s *testStack) do(t *testing.T, method, path string, caller interfaces.Account, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if caller != interfaces.ZeroAccount {
		req.Header.Set(api.CallerHeader, caller.Hex())
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHandleRegisterItem(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/items", memberAcct,
		api.RegisterItemRequest{URI: "ipfs://content", Category: "docs"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[api.RegisterItemResponse](t, w)
	assert.Equal(t, uint64(0), resp.ID)

	w = s.do(t, http.MethodGet, "/api/v1/items/0", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := decodeBody[interfaces.Item](t, w)
	assert.Equal(t, memberAcct, item.Submitter)
	assert.Equal(t, "ipfs://content", item.URI)
	assert.True(t, item.Active)
}

func TestHandleRegisterItemMissingCaller(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/items", interfaces.ZeroAccount,
		api.RegisterItemRequest{URI: "ipfs://content"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRegisterItemEmptyURI(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/items", memberAcct, api.RegisterItemRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetItemNotFound(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodGet, "/api/v1/items/42", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModerationRequiresCuratorRole(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/items", memberAcct,
		api.RegisterItemRequest{URI: "ipfs://content"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Without the role, moderation is forbidden.
	w = s.do(t, http.MethodPost, "/api/v1/items/0/moderate", curatorAcct,
		api.ModerateItemRequest{Verified: true, Active: true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner grants CURATOR over the role endpoint.
	w = s.do(t, http.MethodPost, "/api/v1/roles/grant", ownerAcct,
		api.RoleRequest{Account: curatorAcct, Role: interfaces.RoleCurator})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/items/0/moderate", curatorAcct,
		api.ModerateItemRequest{Verified: true, Active: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/items/0", interfaces.ZeroAccount, nil)
	item := decodeBody[interfaces.Item](t, w)
	assert.True(t, item.Verified)
}

func TestRoleEndpointsStatusMapping(t *testing.T) {
	s := newTestStack(t, 0)

	// Non-admin caller.
	w := s.do(t, http.MethodPost, "/api/v1/roles/grant", memberAcct,
		api.RoleRequest{Account: curatorAcct, Role: interfaces.RoleCurator})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown role.
	w = s.do(t, http.MethodPost, "/api/v1/roles/grant", ownerAcct,
		api.RoleRequest{Account: curatorAcct, Role: "AUDITOR"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Revoking an unheld role is a state conflict.
	w = s.do(t, http.MethodPost, "/api/v1/roles/revoke", ownerAcct,
		api.RoleRequest{Account: curatorAcct, Role: interfaces.RoleCurator})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Granting twice is a state conflict.
	w = s.do(t, http.MethodPost, "/api/v1/roles/grant", ownerAcct,
		api.RoleRequest{Account: curatorAcct, Role: interfaces.RoleCurator})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/roles/grant", ownerAcct,
		api.RoleRequest{Account: curatorAcct, Role: interfaces.RoleCurator})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOwnershipTransferEndpoint(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodGet, "/api/v1/owner", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ownerAcct, decodeBody[api.OwnerResponse](t, w).Owner)

	w = s.do(t, http.MethodPost, "/api/v1/owner/transfer", memberAcct,
		api.TransferOwnershipRequest{NewOwner: memberAcct})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/owner/transfer", ownerAcct,
		api.TransferOwnershipRequest{NewOwner: memberAcct})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/owner", interfaces.ZeroAccount, nil)
	assert.Equal(t, memberAcct, decodeBody[api.OwnerResponse](t, w).Owner)
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	s := newTestStack(t, 100)
	s.bank.Mint(memberAcct, big.NewInt(500))

	// Underpaying the fee is a payment failure.
	w := s.do(t, http.MethodPost, "/api/v1/documents", memberAcct, api.CreateDocumentRequest{
		DocumentHash:    "0xabc123",
		RequiredSigners: []interfaces.Account{curatorAcct, signerAcct},
		Value:           (*hexutil.Big)(big.NewInt(99)),
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/documents", memberAcct, api.CreateDocumentRequest{
		DocumentHash:    "0xabc123",
		RequiredSigners: []interfaces.Account{curatorAcct, signerAcct},
		Value:           (*hexutil.Big)(big.NewInt(100)),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeBody[api.CreateDocumentResponse](t, w).ID
	assert.Equal(t, uint64(1), id)

	// A non-signer may not sign.
	w = s.do(t, http.MethodPost, "/api/v1/documents/1/sign", memberAcct, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/documents/1/sign", curatorAcct, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody[interfaces.Document](t, w)
	assert.Equal(t, 1, doc.SignatureCount)
	assert.False(t, doc.Completed)

	// Signing twice is a state conflict.
	w = s.do(t, http.MethodPost, "/api/v1/documents/1/sign", curatorAcct, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/documents/1/sign", signerAcct, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc = decodeBody[interfaces.Document](t, w)
	assert.True(t, doc.Completed)

	// Signer status reflects the recorded attestation.
	w = s.do(t, http.MethodGet, "/api/v1/documents/1/signers/"+signerAcct.Hex(), interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody[api.SignerStatusResponse](t, w)
	assert.True(t, status.Required)
	assert.True(t, status.Signed)

	// Completed documents cannot be revoked.
	w = s.do(t, http.MethodPost, "/api/v1/documents/1/revoke", memberAcct, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The deposit accumulated in the treasury.
	w = s.do(t, http.MethodGet, "/api/v1/fees", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fees := decodeBody[api.FeeResponse](t, w)
	assert.Equal(t, int64(100), (*big.Int)(fees.TreasuryBalance).Int64())
}

func TestAccountDocumentListings(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/documents", memberAcct, api.CreateDocumentRequest{
		DocumentHash:    "0xaaa",
		RequiredSigners: []interfaces.Account{signerAcct},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/accounts/"+memberAcct.Hex()+"/documents", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{1}, decodeBody[api.IDListResponse](t, w).IDs)

	w = s.do(t, http.MethodGet, "/api/v1/accounts/"+signerAcct.Hex()+"/signed-documents", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{1}, decodeBody[api.IDListResponse](t, w).IDs)

	w = s.do(t, http.MethodGet, "/api/v1/accounts/"+signerAcct.Hex()+"/documents", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[api.IDListResponse](t, w).IDs)
}

func TestFeeAdministrationEndpoints(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/fees", memberAcct,
		api.FeeRequest{Fee: (*hexutil.Big)(big.NewInt(50))})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/fees", ownerAcct,
		api.FeeRequest{Fee: (*hexutil.Big)(big.NewInt(50))})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/fees", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(50), (*big.Int)(decodeBody[api.FeeResponse](t, w).Fee).Int64())

	// Withdrawal is owner-gated and moves the full balance.
	s.bank.Mint(treasuryAcct, big.NewInt(75))
	w = s.do(t, http.MethodPost, "/api/v1/fees/withdraw", memberAcct, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/fees/withdraw", ownerAcct, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(75), (*big.Int)(decodeBody[api.WithdrawResponse](t, w).Amount).Int64())
	assert.Equal(t, int64(75), s.bank.BalanceOf(ownerAcct).Int64())
}

func TestFundEndpointOwnerGated(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/bank/fund", memberAcct, api.FundRequest{
		Account: memberAcct,
		Amount:  (*hexutil.Big)(big.NewInt(100)),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/bank/fund", ownerAcct, api.FundRequest{
		Account: memberAcct,
		Amount:  (*hexutil.Big)(big.NewInt(100)),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100), (*big.Int)(decodeBody[api.BalanceResponse](t, w).Balance).Int64())

	w = s.do(t, http.MethodGet, "/api/v1/bank/"+memberAcct.Hex(), interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100), (*big.Int)(decodeBody[api.BalanceResponse](t, w).Balance).Int64())
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodPost, "/api/v1/items", memberAcct,
		api.RegisterItemRequest{URI: "ipfs://a"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/roles/grant", ownerAcct,
		api.RoleRequest{Account: curatorAcct, Role: interfaces.RoleCurator})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/events", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decodeBody[api.EventsResponse](t, w)
	require.Len(t, events.Records, 2)
	assert.Equal(t, interfaces.EventItemRegistered, events.Records[0].Name)
	assert.Equal(t, interfaces.EventRoleGranted, events.Records[1].Name)
	assert.Equal(t, events.Records[1].Digest.Hex(), events.Head)

	w = s.do(t, http.MethodGet, "/api/v1/events?name="+interfaces.EventRoleGranted, interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events = decodeBody[api.EventsResponse](t, w)
	require.Len(t, events.Records, 1)
	assert.Equal(t, interfaces.EventRoleGranted, events.Records[0].Name)

	w = s.do(t, http.MethodGet, "/api/v1/events?from=1", interfaces.ZeroAccount, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[api.EventsResponse](t, w).Records, 1)
}

func TestHealthAndDrainEndpoints(t *testing.T) {
	s := newTestStack(t, 0)

	w := s.do(t, http.MethodGet, "/livez", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/readyz", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/drain", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/readyz", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodGet, "/undrain", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/readyz", interfaces.ZeroAccount, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
