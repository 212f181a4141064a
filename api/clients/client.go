// Package clients provides HTTP clients for the ledger API along with
// testify mocks for the provider interfaces.
package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/veriledger/registry-attestation-backend/api"
	"github.com/veriledger/registry-attestation-backend/interfaces"
)

// Client talks to the ledger HTTP API as a fixed caller identity. It
// implements api.RegistryProvider, api.AttestationProvider, and
// api.AdminProvider.
type Client struct {
	// ServerAddr is the base URL of the ledger server.
	ServerAddr string

	// Caller is the identity set on every mutating request.
	Caller interfaces.Account

	httpClient *http.Client
}

// NewClient creates a client for the given server and caller identity.
func NewClient(serverAddr string, caller interfaces.Account, timeout ...time.Duration) *Client {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}
	return &Client{
		ServerAddr: serverAddr,
		Caller:     caller,
		httpClient: &http.Client{Timeout: clientTimeout},
	}
}

// do sends the request and decodes a JSON response into out (if non-nil).
// Non-2xx responses are surfaced with the server's error message.
func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.ServerAddr+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(api.CallerHeader, c.Caller.Hex())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach ledger endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			return fmt.Errorf("ledger endpoint returned %d", resp.StatusCode)
		}
		return fmt.Errorf("ledger endpoint returned %d: %s", resp.StatusCode, errResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse ledger response: %w", err)
	}
	return nil
}

// RegisterItem submits a new item and returns its id.
func (c *Client) RegisterItem(uri, category string) (uint64, error) {
	var resp api.RegisterItemResponse
	err := c.do(http.MethodPost, "/api/v1/items", api.RegisterItemRequest{URI: uri, Category: category}, &resp)
	return resp.ID, err
}

// ModerateItem overwrites the item's lifecycle flags. Requires CURATOR.
func (c *Client) ModerateItem(id uint64, verified, active bool) error {
	return c.do(http.MethodPost, fmt.Sprintf("/api/v1/items/%d/moderate", id),
		api.ModerateItemRequest{Verified: verified, Active: active}, nil)
}

// DeactivateItem deactivates the caller's own item.
func (c *Client) DeactivateItem(id uint64) error {
	return c.do(http.MethodPost, fmt.Sprintf("/api/v1/items/%d/deactivate", id), nil, nil)
}

// GetItem fetches one item.
func (c *Client) GetItem(id uint64) (interfaces.Item, error) {
	var item interfaces.Item
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/items/%d", id), nil, &item)
	return item, err
}

// ItemsOf lists the item ids an account registered.
func (c *Client) ItemsOf(account interfaces.Account) ([]uint64, error) {
	var resp api.IDListResponse
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/items", account.Hex()), nil, &resp)
	return resp.IDs, err
}

// GrantRole grants a role. Requires ADMIN.
func (c *Client) GrantRole(account interfaces.Account, role interfaces.Role) error {
	return c.do(http.MethodPost, "/api/v1/roles/grant", api.RoleRequest{Account: account, Role: role}, nil)
}

// RevokeRole revokes a role. Requires ADMIN.
func (c *Client) RevokeRole(account interfaces.Account, role interfaces.Role) error {
	return c.do(http.MethodPost, "/api/v1/roles/revoke", api.RoleRequest{Account: account, Role: role}, nil)
}

// TransferOwnership replaces the owner. Owner only.
func (c *Client) TransferOwnership(newOwner interfaces.Account) error {
	return c.do(http.MethodPost, "/api/v1/owner/transfer", api.TransferOwnershipRequest{NewOwner: newOwner}, nil)
}

// Owner fetches the current owner identity.
func (c *Client) Owner() (interfaces.Account, error) {
	var resp api.OwnerResponse
	err := c.do(http.MethodGet, "/api/v1/owner", nil, &resp)
	return resp.Owner, err
}

// CreateDocument creates a document with attached value and returns its id.
func (c *Client) CreateDocument(documentHash string, requiredSigners []interfaces.Account, value *big.Int) (uint64, error) {
	var resp api.CreateDocumentResponse
	err := c.do(http.MethodPost, "/api/v1/documents", api.CreateDocumentRequest{
		DocumentHash:    documentHash,
		RequiredSigners: requiredSigners,
		Value:           (*hexutil.Big)(value),
	}, &resp)
	return resp.ID, err
}

// SignDocument records the caller's attestation.
func (c *Client) SignDocument(id uint64) error {
	return c.do(http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/sign", id), nil, nil)
}

// RevokeDocument revokes the caller's document.
func (c *Client) RevokeDocument(id uint64) error {
	return c.do(http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/revoke", id), nil, nil)
}

// GetDocument fetches one document.
func (c *Client) GetDocument(id uint64) (interfaces.Document, error) {
	var doc interfaces.Document
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", id), nil, &doc)
	return doc, err
}

// SignerStatus reports whether the account is required and has signed.
func (c *Client) SignerStatus(id uint64, account interfaces.Account) (api.SignerStatusResponse, error) {
	var resp api.SignerStatusResponse
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/documents/%d/signers/%s", id, account.Hex()), nil, &resp)
	return resp, err
}

// UserDocuments lists the document ids an account created.
func (c *Client) UserDocuments(account interfaces.Account) ([]uint64, error) {
	var resp api.IDListResponse
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/documents", account.Hex()), nil, &resp)
	return resp.IDs, err
}

// SignerDocuments lists the document ids an account must sign.
func (c *Client) SignerDocuments(account interfaces.Account) ([]uint64, error) {
	var resp api.IDListResponse
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/signed-documents", account.Hex()), nil, &resp)
	return resp.IDs, err
}

// SetStorageFee updates the per-creation fee. Owner only.
func (c *Client) SetStorageFee(fee *big.Int) error {
	return c.do(http.MethodPost, "/api/v1/fees", api.FeeRequest{Fee: (*hexutil.Big)(fee)}, nil)
}

// StorageFee fetches the current fee and treasury balance.
func (c *Client) StorageFee() (api.FeeResponse, error) {
	var resp api.FeeResponse
	err := c.do(http.MethodGet, "/api/v1/fees", nil, &resp)
	return resp, err
}

// WithdrawFees moves the full treasury balance to the owner. Owner only.
func (c *Client) WithdrawFees() (*big.Int, error) {
	var resp api.WithdrawResponse
	if err := c.do(http.MethodPost, "/api/v1/fees/withdraw", nil, &resp); err != nil {
		return nil, err
	}
	return (*big.Int)(resp.Amount), nil
}

// Fund mints native value to an account. Owner only.
func (c *Client) Fund(account interfaces.Account, amount *big.Int) error {
	return c.do(http.MethodPost, "/api/v1/bank/fund", api.FundRequest{
		Account: account,
		Amount:  (*hexutil.Big)(amount),
	}, nil)
}

// Balance fetches an account's native balance.
func (c *Client) Balance(account interfaces.Account) (*big.Int, error) {
	var resp api.BalanceResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/bank/%s", account.Hex()), nil, &resp); err != nil {
		return nil, err
	}
	return (*big.Int)(resp.Balance), nil
}

// Events fetches journal records, optionally filtered by event name.
func (c *Client) Events(from uint64, name string) (api.EventsResponse, error) {
	path := fmt.Sprintf("/api/v1/events?from=%d", from)
	if name != "" {
		path = "/api/v1/events?name=" + name
	}
	var resp api.EventsResponse
	err := c.do(http.MethodGet, path, nil, &resp)
	return resp, err
}
