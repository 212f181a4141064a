package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriledger/registry-attestation-backend/interfaces"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func TestBankMintAndBalance(t *testing.T) {
	bank := NewBank()

	assert.Equal(t, int64(0), bank.BalanceOf(alice).Int64())

	bank.Mint(alice, big.NewInt(100))
	bank.Mint(alice, big.NewInt(50))
	assert.Equal(t, int64(150), bank.BalanceOf(alice).Int64())

	// Zero and nil amounts are ignored.
	bank.Mint(alice, big.NewInt(0))
	bank.Mint(alice, nil)
	assert.Equal(t, int64(150), bank.BalanceOf(alice).Int64())
}

func TestBankBalanceOfReturnsCopy(t *testing.T) {
	bank := NewBank()
	bank.Mint(alice, big.NewInt(100))

	bal := bank.BalanceOf(alice)
	bal.SetInt64(0)
	assert.Equal(t, int64(100), bank.BalanceOf(alice).Int64())
}

func TestBankTransfer(t *testing.T) {
	bank := NewBank()
	bank.Mint(alice, big.NewInt(100))

	err := bank.Transfer(alice, bob, big.NewInt(40))
	require.NoError(t, err)
	assert.Equal(t, int64(60), bank.BalanceOf(alice).Int64())
	assert.Equal(t, int64(40), bank.BalanceOf(bob).Int64())
}

func TestBankTransferInsufficientFunds(t *testing.T) {
	bank := NewBank()
	bank.Mint(alice, big.NewInt(10))

	err := bank.Transfer(alice, bob, big.NewInt(11))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	// A failed transfer leaves both balances untouched.
	assert.Equal(t, int64(10), bank.BalanceOf(alice).Int64())
	assert.Equal(t, int64(0), bank.BalanceOf(bob).Int64())
}

func TestBankTransferNegativeAmount(t *testing.T) {
	bank := NewBank()
	bank.Mint(alice, big.NewInt(10))

	err := bank.Transfer(alice, bob, big.NewInt(-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))

	err = bank.Transfer(alice, bob, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
}

func TestBankReceiveHookRejection(t *testing.T) {
	bank := NewBank()
	bank.Mint(alice, big.NewInt(100))

	bank.SetReceiveHook(bob, func(from interfaces.Account, amount *big.Int) error {
		return errors.New("account refuses funds")
	})

	err := bank.Transfer(alice, bob, big.NewInt(40))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransferRejected))

	// The movement is fully reversed.
	assert.Equal(t, int64(100), bank.BalanceOf(alice).Int64())
	assert.Equal(t, int64(0), bank.BalanceOf(bob).Int64())

	// Removing the hook restores normal transfers.
	bank.SetReceiveHook(bob, nil)
	require.NoError(t, bank.Transfer(alice, bob, big.NewInt(40)))
	assert.Equal(t, int64(40), bank.BalanceOf(bob).Int64())
}

func TestBankReceiveHookObservesTransfer(t *testing.T) {
	bank := NewBank()
	bank.Mint(alice, big.NewInt(100))

	var hookFrom interfaces.Account
	var hookAmount *big.Int
	bank.SetReceiveHook(bob, func(from interfaces.Account, amount *big.Int) error {
		hookFrom = from
		hookAmount = new(big.Int).Set(amount)
		// The credit lands before the hook runs.
		assert.Equal(t, int64(25), bank.BalanceOf(bob).Int64())
		return nil
	})

	require.NoError(t, bank.Transfer(alice, bob, big.NewInt(25)))
	assert.Equal(t, alice, hookFrom)
	assert.Equal(t, int64(25), hookAmount.Int64())
}

func TestBankZeroTransferInvokesHook(t *testing.T) {
	bank := NewBank()

	hookCalled := false
	bank.SetReceiveHook(bob, func(from interfaces.Account, amount *big.Int) error {
		hookCalled = true
		assert.Equal(t, 0, amount.Sign())
		return nil
	})

	require.NoError(t, bank.Transfer(alice, bob, big.NewInt(0)))
	assert.True(t, hookCalled)
}
