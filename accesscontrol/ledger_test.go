package accesscontrol

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
)

var (
	owner   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	curator = common.HexToAddress("0x0000000000000000000000000000000000000002")
	member  = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

func call(caller interfaces.Account) interfaces.Call {
	return interfaces.Call{Caller: caller, Now: time.Now()}
}

func newTestLedger(t *testing.T) (*Ledger, *ledger.Journal) {
	t.Helper()
	journal := ledger.NewJournal()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l, err := New(owner, journal, logger)
	require.NoError(t, err)
	return l, journal
}

func TestNewRejectsZeroOwner(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(interfaces.ZeroAccount, ledger.NewJournal(), logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
}

func TestOwnerHoldsAdminAtInit(t *testing.T) {
	l, journal := newTestLedger(t)

	assert.Equal(t, owner, l.Owner())
	assert.True(t, l.HasRole(owner, interfaces.RoleAdmin))
	assert.False(t, l.HasRole(owner, interfaces.RoleCurator))

	// The initial grant precedes any operation and emits no event.
	assert.Equal(t, 0, journal.Len())
}

func TestGrantRole(t *testing.T) {
	l, journal := newTestLedger(t)

	require.NoError(t, l.GrantRole(call(owner), curator, interfaces.RoleCurator))
	assert.True(t, l.HasRole(curator, interfaces.RoleCurator))

	records := journal.ByName(interfaces.EventRoleGranted)
	require.Len(t, records, 1)
	granted := records[0].Event.(interfaces.RoleGranted)
	assert.Equal(t, curator, granted.Account)
	assert.Equal(t, interfaces.RoleCurator, granted.Role)
	assert.Equal(t, owner, granted.Sender)
}

func TestGrantRoleRejectsNonAdmin(t *testing.T) {
	l, journal := newTestLedger(t)

	err := l.GrantRole(call(member), curator, interfaces.RoleCurator)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrUnauthorized))
	assert.False(t, l.HasRole(curator, interfaces.RoleCurator))
	assert.Equal(t, 0, journal.Len())
}

func TestGrantRoleValidation(t *testing.T) {
	l, _ := newTestLedger(t)

	err := l.GrantRole(call(owner), interfaces.ZeroAccount, interfaces.RoleCurator)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))

	err = l.GrantRole(call(owner), curator, interfaces.Role("AUDITOR"))
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
}

func TestGrantRoleTwice(t *testing.T) {
	l, journal := newTestLedger(t)

	require.NoError(t, l.GrantRole(call(owner), curator, interfaces.RoleCurator))
	err := l.GrantRole(call(owner), curator, interfaces.RoleCurator)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidState))
	assert.Len(t, journal.ByName(interfaces.EventRoleGranted), 1)
}

func TestRevokeRole(t *testing.T) {
	l, journal := newTestLedger(t)

	require.NoError(t, l.GrantRole(call(owner), curator, interfaces.RoleCurator))
	require.NoError(t, l.RevokeRole(call(owner), curator, interfaces.RoleCurator))
	assert.False(t, l.HasRole(curator, interfaces.RoleCurator))
	assert.Len(t, journal.ByName(interfaces.EventRoleRevoked), 1)

	// Revoking an unheld role is a state violation, not a no-op.
	err := l.RevokeRole(call(owner), curator, interfaces.RoleCurator)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidState))
	assert.Len(t, journal.ByName(interfaces.EventRoleRevoked), 1)
}

func TestRevokeRoleRejectsNonAdmin(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.GrantRole(call(owner), curator, interfaces.RoleCurator))
	err := l.RevokeRole(call(member), curator, interfaces.RoleCurator)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrUnauthorized))
	assert.True(t, l.HasRole(curator, interfaces.RoleCurator))
}

func TestAdminRoleCanBeDelegated(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.GrantRole(call(owner), member, interfaces.RoleAdmin))
	require.NoError(t, l.GrantRole(call(member), curator, interfaces.RoleCurator))
	assert.True(t, l.HasRole(curator, interfaces.RoleCurator))

	// An admin may revoke the owner's own grant; ownership and the ADMIN
	// role are separate axes.
	require.NoError(t, l.RevokeRole(call(member), owner, interfaces.RoleAdmin))
	assert.False(t, l.HasRole(owner, interfaces.RoleAdmin))
	assert.Equal(t, owner, l.Owner())
}

func TestTransferOwnership(t *testing.T) {
	l, journal := newTestLedger(t)

	require.NoError(t, l.GrantRole(call(owner), curator, interfaces.RoleCurator))
	require.NoError(t, l.TransferOwnership(call(owner), member))
	assert.Equal(t, member, l.Owner())

	records := journal.ByName(interfaces.EventOwnershipTransferred)
	require.Len(t, records, 1)
	transferred := records[0].Event.(interfaces.OwnershipTransferred)
	assert.Equal(t, owner, transferred.Previous)
	assert.Equal(t, member, transferred.New)

	// Transfer alters no role grant: the previous owner keeps ADMIN and the
	// new owner gains nothing implicitly.
	assert.True(t, l.HasRole(owner, interfaces.RoleAdmin))
	assert.True(t, l.HasRole(curator, interfaces.RoleCurator))
	assert.False(t, l.HasRole(member, interfaces.RoleAdmin))

	// The previous owner no longer passes the owner check.
	err := l.TransferOwnership(call(owner), curator)
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrUnauthorized))
}

func TestTransferOwnershipValidation(t *testing.T) {
	l, _ := newTestLedger(t)

	err := l.TransferOwnership(call(member), member)
	assert.True(t, errors.Is(err, interfaces.ErrUnauthorized))

	err = l.TransferOwnership(call(owner), interfaces.ZeroAccount)
	assert.True(t, errors.Is(err, interfaces.ErrInvalidInput))
	assert.Equal(t, owner, l.Owner())
}
