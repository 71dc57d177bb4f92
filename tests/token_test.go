package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"

	"github.com/glacier-token/glacier-contract/common"
	"github.com/glacier-token/glacier-contract/contracts/token/tokenconst"
)

const tokenPath = "../contracts/token"

const (
	testDecimals = 7
	testName     = "Glacier"
	testSymbol   = "GLC"
)

func deployTokenContract(t *testing.T, e *neotest.Executor) *neotest.ContractInvoker {
	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return e.CommitteeInvoker(c.Hash)
}

// newTokenInvoker deploys the contract and initializes it with the committee
// account as the administrator.
func newTokenInvoker(t *testing.T) (*neotest.Executor, *neotest.ContractInvoker) {
	e := newExecutor(t)
	c := deployTokenContract(t, e)
	c.Invoke(t, stackitem.Null{}, "initialize", e.CommitteeHash, int64(testDecimals), testName, testSymbol)
	return e, c
}

func balanceOf(t *testing.T, c *neotest.ContractInvoker, acc util.Uint160) int64 {
	s, err := c.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	n, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	return n.Int64()
}

func totalSupply(t *testing.T, c *neotest.ContractInvoker) int64 {
	s, err := c.TestInvoke(t, "totalSupply")
	require.NoError(t, err)
	n, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	return n.Int64()
}

func addBlocks(t *testing.T, e *neotest.Executor, n int) {
	for i := 0; i < n; i++ {
		e.AddNewBlock(t)
	}
}

func TestInitialize(t *testing.T) {
	e := newExecutor(t)
	c := deployTokenContract(t, e)

	acc := c.NewAccount(t)

	c.InvokeFail(t, tokenconst.ErrDecimalOutOfRange, "initialize", e.CommitteeHash, int64(256), testName, testSymbol)

	c.Invoke(t, stackitem.Null{}, "initialize", e.CommitteeHash, int64(testDecimals), testName, testSymbol)
	c.Invoke(t, int64(testDecimals), "decimals")
	c.Invoke(t, testName, "name")
	c.Invoke(t, testSymbol, "symbol")
	c.Invoke(t, stackitem.NewByteArray(e.CommitteeHash.BytesBE()), "admin")
	c.Invoke(t, int64(0), "totalSupply")

	// Terminal setup step, even for the administrator itself.
	c.InvokeFail(t, tokenconst.ErrAlreadyInitialized, "initialize", e.CommitteeHash, int64(testDecimals), testName, testSymbol)
	c.WithSigners(acc).InvokeFail(t, tokenconst.ErrAlreadyInitialized, "initialize", acc.ScriptHash(), int64(0), "Other", "OTH")
}

func TestMint(t *testing.T) {
	e := newExecutor(t)
	c := deployTokenContract(t, e)

	acc := c.NewAccount(t)
	to := acc.ScriptHash()

	c.InvokeFail(t, tokenconst.ErrUninitialized, "mint", to, int64(100))

	c.Invoke(t, stackitem.Null{}, "initialize", e.CommitteeHash, int64(testDecimals), testName, testSymbol)

	c.InvokeFail(t, tokenconst.ErrInvalidAmount, "mint", to, int64(-1))
	c.WithSigners(acc).InvokeFail(t, common.ErrAdminWitnessFailed, "mint", to, int64(100))

	h := c.Invoke(t, stackitem.Null{}, "mint", to, int64(100))
	aer := c.CheckHalt(t, h)
	require.Equal(t, 2, len(aer.Events))
	require.Equal(t, "Mint", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(e.CommitteeHash.BytesBE()),
		stackitem.NewByteArray(to.BytesBE()),
		stackitem.Make(100),
	}), aer.Events[0].Item)
	require.Equal(t, "Transfer", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Null{},
		stackitem.NewByteArray(to.BytesBE()),
		stackitem.Make(100),
	}), aer.Events[1].Item)

	require.EqualValues(t, 100, balanceOf(t, c, to))
	require.EqualValues(t, 100, totalSupply(t, c))

	c.Invoke(t, stackitem.Null{}, "freezeAccount", to)
	c.InvokeFail(t, tokenconst.ErrAccountFrozen, "mint", to, int64(1))
	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", to)
	c.Invoke(t, stackitem.Null{}, "mint", to, int64(1))
	require.EqualValues(t, 101, balanceOf(t, c, to))
}

func TestMintOverflow(t *testing.T) {
	_, c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	other := c.NewAccount(t)

	const maxBalance = 1<<63 - 1

	c.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(maxBalance))
	c.InvokeFail(t, tokenconst.ErrBalanceOverflow, "mint", acc.ScriptHash(), int64(1))
	// Supply is capped as a whole, not per account.
	c.InvokeFail(t, tokenconst.ErrBalanceOverflow, "mint", other.ScriptHash(), int64(1))
	require.EqualValues(t, maxBalance, totalSupply(t, c))
}

func TestTransfer(t *testing.T) {
	_, c := newTokenInvoker(t)

	from := c.NewAccount(t)
	to := c.NewAccount(t)
	cFrom := c.WithSigners(from)

	c.Invoke(t, stackitem.Null{}, "mint", from.ScriptHash(), int64(100))

	cFrom.InvokeFail(t, tokenconst.ErrInvalidAmount, "transfer", from.ScriptHash(), to.ScriptHash(), int64(-5))
	c.WithSigners(to).InvokeFail(t, common.ErrOwnerWitnessFailed, "transfer", from.ScriptHash(), to.ScriptHash(), int64(10))
	cFrom.InvokeFail(t, tokenconst.ErrInsufficientBalance, "transfer", from.ScriptHash(), to.ScriptHash(), int64(101))
	require.EqualValues(t, 100, balanceOf(t, c, from.ScriptHash()))
	require.EqualValues(t, 0, balanceOf(t, c, to.ScriptHash()))

	h := cFrom.Invoke(t, stackitem.Null{}, "transfer", from.ScriptHash(), to.ScriptHash(), int64(40))
	aer := cFrom.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(from.ScriptHash().BytesBE()),
		stackitem.NewByteArray(to.ScriptHash().BytesBE()),
		stackitem.Make(40),
	}), aer.Events[0].Item)

	require.EqualValues(t, 60, balanceOf(t, c, from.ScriptHash()))
	require.EqualValues(t, 40, balanceOf(t, c, to.ScriptHash()))
	require.EqualValues(t, 100, totalSupply(t, c))

	// Self-transfer is allowed and changes nothing.
	cFrom.Invoke(t, stackitem.Null{}, "transfer", from.ScriptHash(), from.ScriptHash(), int64(10))
	require.EqualValues(t, 60, balanceOf(t, c, from.ScriptHash()))
}

func TestTransferFrozen(t *testing.T) {
	_, c := newTokenInvoker(t)

	from := c.NewAccount(t)
	to := c.NewAccount(t)
	cFrom := c.WithSigners(from)

	c.Invoke(t, stackitem.Null{}, "mint", from.ScriptHash(), int64(100))

	c.Invoke(t, stackitem.Null{}, "freezeAccount", from.ScriptHash())
	cFrom.InvokeFail(t, tokenconst.ErrAccountFrozen, "transfer", from.ScriptHash(), to.ScriptHash(), int64(1))
	require.EqualValues(t, 100, balanceOf(t, c, from.ScriptHash()))

	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", from.ScriptHash())
	cFrom.Invoke(t, stackitem.Null{}, "transfer", from.ScriptHash(), to.ScriptHash(), int64(1))
	require.EqualValues(t, 99, balanceOf(t, c, from.ScriptHash()))

	// Frozen accounts cannot receive either.
	c.Invoke(t, stackitem.Null{}, "freezeAccount", to.ScriptHash())
	cFrom.InvokeFail(t, tokenconst.ErrAccountFrozen, "transfer", from.ScriptHash(), to.ScriptHash(), int64(1))
}

func TestTransferFrom(t *testing.T) {
	e, c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	dst := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	c.Invoke(t, stackitem.Null{}, "mint", owner.ScriptHash(), int64(100))

	cSpender.InvokeFail(t, tokenconst.ErrInsufficientAllowance, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(1))

	expiration := int64(e.Chain.BlockHeight()) + 100
	cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), int64(50), expiration)
	c.Invoke(t, int64(50), "effectiveAllowance", owner.ScriptHash(), spender.ScriptHash())

	// Only the spender itself can use the grant.
	cOwner.InvokeFail(t, common.ErrOwnerWitnessFailed, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(10))
	cSpender.InvokeFail(t, tokenconst.ErrInsufficientAllowance, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(51))

	h := cSpender.Invoke(t, stackitem.Null{}, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(30))
	aer := cSpender.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(owner.ScriptHash().BytesBE()),
		stackitem.NewByteArray(dst.ScriptHash().BytesBE()),
		stackitem.Make(30),
	}), aer.Events[0].Item)

	require.EqualValues(t, 70, balanceOf(t, c, owner.ScriptHash()))
	require.EqualValues(t, 30, balanceOf(t, c, dst.ScriptHash()))
	c.Invoke(t, int64(20), "effectiveAllowance", owner.ScriptHash(), spender.ScriptHash())

	// The allowance does not cover the owner going broke by itself.
	cOwner.Invoke(t, stackitem.Null{}, "transfer", owner.ScriptHash(), dst.ScriptHash(), int64(65))
	cSpender.InvokeFail(t, tokenconst.ErrInsufficientBalance, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(10))
}

func TestTransferFromFrozen(t *testing.T) {
	e, c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	dst := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	c.Invoke(t, stackitem.Null{}, "mint", owner.ScriptHash(), int64(100))
	expiration := int64(e.Chain.BlockHeight()) + 100
	cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), int64(50), expiration)

	c.Invoke(t, stackitem.Null{}, "freezeAccount", owner.ScriptHash())
	cSpender.InvokeFail(t, tokenconst.ErrAccountFrozen, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(10))

	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", owner.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "freezeAccount", dst.ScriptHash())
	cSpender.InvokeFail(t, tokenconst.ErrAccountFrozen, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(10))

	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", dst.ScriptHash())
	cSpender.Invoke(t, stackitem.Null{}, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(10))
	require.EqualValues(t, 10, balanceOf(t, c, dst.ScriptHash()))
}

func TestAllowanceExpiration(t *testing.T) {
	e, c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	dst := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	c.Invoke(t, stackitem.Null{}, "mint", owner.ScriptHash(), int64(100))

	expiration := int64(e.Chain.BlockHeight()) + 5
	cOwner.Invoke(t, stackitem.Null{}, "approve", owner.ScriptHash(), spender.ScriptHash(), int64(50), expiration)

	addBlocks(t, e, 10)

	// The record is still there, but it spends as zero.
	c.Invoke(t, int64(0), "effectiveAllowance", owner.ScriptHash(), spender.ScriptHash())
	s, err := c.TestInvoke(t, "allowanceOf", owner.ScriptHash(), spender.ScriptHash())
	require.NoError(t, err)
	items, ok := s.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	require.Equal(t, 2, len(items))
	amount, err := items[0].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 50, amount.Int64())

	cSpender.InvokeFail(t, tokenconst.ErrInsufficientAllowance, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), dst.ScriptHash(), int64(1))
}

func TestApprove(t *testing.T) {
	e, c := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	cOwner := c.WithSigners(owner)

	cOwner.InvokeFail(t, tokenconst.ErrInvalidAmount, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(-1), int64(100))
	c.WithSigners(spender).InvokeFail(t, common.ErrOwnerWitnessFailed, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(10), int64(100))

	cOwner.InvokeFail(t, tokenconst.ErrInvalidExpiration, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(10), int64(0))
	// Zero-amount revocation takes any expiration.
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(0), int64(0))

	expiration := int64(e.Chain.BlockHeight()) + 100
	h := cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(50), expiration)
	aer := cOwner.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "Approve", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(owner.ScriptHash().BytesBE()),
		stackitem.NewByteArray(spender.ScriptHash().BytesBE()),
		stackitem.Make(50),
		stackitem.Make(expiration),
	}), aer.Events[0].Item)
	c.Invoke(t, int64(50), "effectiveAllowance", owner.ScriptHash(), spender.ScriptHash())

	// Approve is a set, not an increment.
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(10), expiration)
	c.Invoke(t, int64(10), "effectiveAllowance", owner.ScriptHash(), spender.ScriptHash())

	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(0), expiration)
	c.Invoke(t, int64(0), "effectiveAllowance", owner.ScriptHash(), spender.ScriptHash())
}

func TestBurn(t *testing.T) {
	_, c := newTokenInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	c.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(100))

	cAcc.InvokeFail(t, tokenconst.ErrInvalidAmount, "burn", acc.ScriptHash(), int64(-1))
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "burn", acc.ScriptHash(), int64(10))
	cAcc.InvokeFail(t, tokenconst.ErrInsufficientBalance, "burn", acc.ScriptHash(), int64(101))

	c.Invoke(t, stackitem.Null{}, "freezeAccount", acc.ScriptHash())
	cAcc.InvokeFail(t, tokenconst.ErrAccountFrozen, "burn", acc.ScriptHash(), int64(10))
	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", acc.ScriptHash())

	h := cAcc.Invoke(t, stackitem.Null{}, "burn", acc.ScriptHash(), int64(40))
	aer := cAcc.CheckHalt(t, h)
	require.Equal(t, 2, len(aer.Events))
	require.Equal(t, "Burn", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
		stackitem.Make(40),
	}), aer.Events[0].Item)
	require.Equal(t, "Transfer", aer.Events[1].Name)

	require.EqualValues(t, 60, balanceOf(t, c, acc.ScriptHash()))
	require.EqualValues(t, 60, totalSupply(t, c))
}

func TestFreezeIdempotent(t *testing.T) {
	_, c := newTokenInvoker(t)

	acc := c.NewAccount(t)

	c.WithSigners(acc).InvokeFail(t, common.ErrAdminWitnessFailed, "freezeAccount", acc.ScriptHash())

	c.Invoke(t, stackitem.NewBool(false), "isFrozen", acc.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "freezeAccount", acc.ScriptHash())
	c.Invoke(t, stackitem.NewBool(true), "isFrozen", acc.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "freezeAccount", acc.ScriptHash())
	c.Invoke(t, stackitem.NewBool(true), "isFrozen", acc.ScriptHash())

	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", acc.ScriptHash())
	c.Invoke(t, stackitem.NewBool(false), "isFrozen", acc.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "unfreezeAccount", acc.ScriptHash())
	c.Invoke(t, stackitem.NewBool(false), "isFrozen", acc.ScriptHash())

	// A never-frozen empty account can be frozen even before any mint.
	other := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "freezeAccount", other.ScriptHash())
	c.Invoke(t, stackitem.NewBool(true), "isFrozen", other.ScriptHash())
	c.InvokeFail(t, tokenconst.ErrAccountFrozen, "mint", other.ScriptHash(), int64(1))
}

func TestSetAdmin(t *testing.T) {
	e, c := newTokenInvoker(t)

	newAdmin := c.NewAccount(t)
	cNewAdmin := c.WithSigners(newAdmin)
	acc := c.NewAccount(t)

	cNewAdmin.InvokeFail(t, common.ErrAdminWitnessFailed, "setAdmin", newAdmin.ScriptHash())

	h := c.Invoke(t, stackitem.Null{}, "setAdmin", newAdmin.ScriptHash())
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "SetAdmin", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(e.CommitteeHash.BytesBE()),
		stackitem.NewByteArray(newAdmin.ScriptHash().BytesBE()),
	}), aer.Events[0].Item)

	c.Invoke(t, stackitem.NewByteArray(newAdmin.ScriptHash().BytesBE()), "admin")

	// The previous administrator lost its rights.
	c.InvokeFail(t, common.ErrAdminWitnessFailed, "mint", acc.ScriptHash(), int64(1))
	cNewAdmin.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(1))
	require.EqualValues(t, 1, balanceOf(t, c, acc.ScriptHash()))
}

func TestSupplyBookkeeping(t *testing.T) {
	_, c := newTokenInvoker(t)

	a := c.NewAccount(t)
	b := c.NewAccount(t)
	cA := c.WithSigners(a)

	c.Invoke(t, stackitem.Null{}, "mint", a.ScriptHash(), int64(500))
	c.Invoke(t, stackitem.Null{}, "mint", b.ScriptHash(), int64(300))
	cA.Invoke(t, stackitem.Null{}, "transfer", a.ScriptHash(), b.ScriptHash(), int64(200))
	cA.Invoke(t, stackitem.Null{}, "burn", a.ScriptHash(), int64(100))

	balA := balanceOf(t, c, a.ScriptHash())
	balB := balanceOf(t, c, b.ScriptHash())
	require.EqualValues(t, 200, balA)
	require.EqualValues(t, 500, balB)
	require.Equal(t, balA+balB, totalSupply(t, c))
}

func TestVersion(t *testing.T) {
	_, c := newTokenInvoker(t)

	c.Invoke(t, int64(common.Version), "version")
}
