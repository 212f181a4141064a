package clients

import (
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/veriledger/registry-attestation-backend/api"
	"github.com/veriledger/registry-attestation-backend/interfaces"
)

// MockRegistryProvider mocks api.RegistryProvider.
type MockRegistryProvider struct {
	mock.Mock
}

func (m *MockRegistryProvider) RegisterItem(uri, category string) (uint64, error) {
	args := m.Called(uri, category)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockRegistryProvider) ModerateItem(id uint64, verified, active bool) error {
	args := m.Called(id, verified, active)
	return args.Error(0)
}

func (m *MockRegistryProvider) DeactivateItem(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRegistryProvider) GetItem(id uint64) (interfaces.Item, error) {
	args := m.Called(id)
	return args.Get(0).(interfaces.Item), args.Error(1)
}

func (m *MockRegistryProvider) ItemsOf(account interfaces.Account) ([]uint64, error) {
	args := m.Called(account)
	return args.Get(0).([]uint64), args.Error(1)
}

// MockAttestationProvider mocks api.AttestationProvider.
type MockAttestationProvider struct {
	mock.Mock
}

func (m *MockAttestationProvider) CreateDocument(documentHash string, requiredSigners []interfaces.Account, value *big.Int) (uint64, error) {
	args := m.Called(documentHash, requiredSigners, value)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockAttestationProvider) SignDocument(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAttestationProvider) RevokeDocument(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAttestationProvider) GetDocument(id uint64) (interfaces.Document, error) {
	args := m.Called(id)
	return args.Get(0).(interfaces.Document), args.Error(1)
}

func (m *MockAttestationProvider) SignerStatus(id uint64, account interfaces.Account) (api.SignerStatusResponse, error) {
	args := m.Called(id, account)
	return args.Get(0).(api.SignerStatusResponse), args.Error(1)
}

func (m *MockAttestationProvider) UserDocuments(account interfaces.Account) ([]uint64, error) {
	args := m.Called(account)
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockAttestationProvider) SignerDocuments(account interfaces.Account) ([]uint64, error) {
	args := m.Called(account)
	return args.Get(0).([]uint64), args.Error(1)
}

// MockAdminProvider mocks api.AdminProvider.
type MockAdminProvider struct {
	mock.Mock
}

func (m *MockAdminProvider) GrantRole(account interfaces.Account, role interfaces.Role) error {
	args := m.Called(account, role)
	return args.Error(0)
}

func (m *MockAdminProvider) RevokeRole(account interfaces.Account, role interfaces.Role) error {
	args := m.Called(account, role)
	return args.Error(0)
}

func (m *MockAdminProvider) TransferOwnership(newOwner interfaces.Account) error {
	args := m.Called(newOwner)
	return args.Error(0)
}

func (m *MockAdminProvider) Owner() (interfaces.Account, error) {
	args := m.Called()
	return args.Get(0).(interfaces.Account), args.Error(1)
}

func (m *MockAdminProvider) SetStorageFee(fee *big.Int) error {
	args := m.Called(fee)
	return args.Error(0)
}

func (m *MockAdminProvider) StorageFee() (api.FeeResponse, error) {
	args := m.Called()
	return args.Get(0).(api.FeeResponse), args.Error(1)
}

func (m *MockAdminProvider) WithdrawFees() (*big.Int, error) {
	args := m.Called()
	return args.Get(0).(*big.Int), args.Error(1)
}
