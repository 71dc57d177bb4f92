package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"

	"github.com/glacier-token/glacier-contract/common"
	"github.com/glacier-token/glacier-contract/contracts/token/tokenconst"
)

type (
	// Account stores the state of a single token holder.
	Account struct {
		// Active balance.
		Balance int
		// Frozen accounts can neither send nor receive assets.
		Frozen bool
	}

	// Allowance is a capped time-limited permission for a spender to move
	// assets out of an owner's account. It is worthless once the current
	// ledger index exceeds Expiration.
	Allowance struct {
		Amount     int
		Expiration int
	}
)

const (
	accountPrefix   = 'a'
	allowancePrefix = 'l'

	adminKey    = "tokenAdmin"
	supplyKey   = "tokenSupply"
	decimalsKey = "tokenDecimals"
	nameKey     = "tokenName"
	symbolKey   = "tokenSymbol"

	// maxBalance caps any single balance and the total supply. The widest
	// bound expressible as a constant in contract code, amounts above it
	// fault instead of wrapping.
	maxBalance = 1<<63 - 1

	maxDecimals = 255
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Initialize sets the token administrator and metadata. It can be called
// exactly once and requires no witness: deployment glue is expected to invoke
// it right after deployment. Until it is called, every method that needs the
// administrator fails.
func Initialize(admin interop.Hash160, decimals int, name, symbol string) {
	checkAddress(admin)

	ctx := storage.GetContext()
	if storage.Get(ctx, adminKey) != nil {
		panic(tokenconst.ErrAlreadyInitialized)
	}

	if decimals < 0 || decimals > maxDecimals {
		panic(tokenconst.ErrDecimalOutOfRange)
	}

	storage.Put(ctx, adminKey, admin)
	storage.Put(ctx, decimalsKey, decimals)
	storage.Put(ctx, nameKey, name)
	storage.Put(ctx, symbolKey, symbol)

	runtime.Log("token contract is ready")
}

// Mint credits the specified account and increases total supply accordingly.
// It can be invoked only by the token administrator. Minting to a frozen
// account is not allowed.
//
// It produces Mint and Transfer notifications.
func Mint(to interop.Hash160, amount int) {
	checkNonNegativeAmount(amount)
	checkAddress(to)

	ctx := storage.GetContext()
	admin := readAdmin(ctx)
	common.CheckAdminWitness(admin)

	acc := getAccount(ctx, to)
	if acc.Frozen {
		panic(tokenconst.ErrAccountFrozen)
	}

	supply := getSupply(ctx)
	if supply > maxBalance-amount {
		panic(tokenconst.ErrBalanceOverflow)
	}

	acc.Balance = checkedAdd(acc.Balance, amount)
	setAccount(ctx, to, acc)
	storage.Put(ctx, supplyKey, supply+amount)

	runtime.Notify("Mint", admin, to, amount)
	runtime.Notify("Transfer", interop.Hash160(nil), to, amount)
}

// Transfer moves assets between accounts. It can be invoked only by the
// owner of the source account. Neither the source nor the destination may be
// frozen.
//
// It produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int) {
	checkNonNegativeAmount(amount)
	checkAddress(from)
	checkAddress(to)

	common.CheckOwnerWitness(from)

	ctx := storage.GetContext()
	move(ctx, from, to, amount)

	runtime.Notify("Transfer", from, to, amount)
}

// TransferFrom moves assets between accounts on behalf of their owner,
// spending the allowance granted to the spender with Approve. It can be
// invoked only by the spender. The transfer itself is a subject to the same
// freeze and balance rules as Transfer, and the notification is attributed
// to the ultimate parties, not the spender.
//
// It produces Transfer notification.
func TransferFrom(spender, from, to interop.Hash160, amount int) {
	checkNonNegativeAmount(amount)
	checkAddress(spender)
	checkAddress(from)
	checkAddress(to)

	common.CheckOwnerWitness(spender)

	ctx := storage.GetContext()
	currentIndex := ledger.CurrentIndex()

	allowanceKey := makeAllowanceKey(from, spender)
	remaining := getAllowance(ctx, allowanceKey)
	if effectiveAmount(remaining, currentIndex) < amount {
		panic(tokenconst.ErrInsufficientAllowance)
	}

	move(ctx, from, to, amount)

	remaining.Amount -= amount
	if remaining.Amount > 0 {
		common.SetSerialized(ctx, allowanceKey, remaining)
	} else {
		storage.Delete(ctx, allowanceKey)
	}

	runtime.Notify("Transfer", from, to, amount)
}

// Approve grants the spender a permission to move up to amount of the
// owner's assets until the specified ledger index, overwriting any previous
// grant unconditionally. A non-zero grant with expiration below the current
// ledger index is rejected. It can be invoked only by the account owner.
//
// It produces Approve notification.
func Approve(from, spender interop.Hash160, amount, expiration int) {
	checkNonNegativeAmount(amount)
	checkAddress(from)
	checkAddress(spender)

	common.CheckOwnerWitness(from)

	if amount > 0 && expiration < ledger.CurrentIndex() {
		panic(tokenconst.ErrInvalidExpiration)
	}

	ctx := storage.GetContext()
	common.SetSerialized(ctx, makeAllowanceKey(from, spender), Allowance{
		Amount:     amount,
		Expiration: expiration,
	})

	runtime.Notify("Approve", from, spender, amount, expiration)
}

// Burn destroys assets of the specified account and decreases total supply
// accordingly. It can be invoked only by the account owner. Frozen accounts
// cannot burn.
//
// It produces Burn and Transfer notifications.
func Burn(from interop.Hash160, amount int) {
	checkNonNegativeAmount(amount)
	checkAddress(from)

	common.CheckOwnerWitness(from)

	ctx := storage.GetContext()
	acc := getAccount(ctx, from)
	if acc.Frozen {
		panic(tokenconst.ErrAccountFrozen)
	}
	if acc.Balance < amount {
		panic(tokenconst.ErrInsufficientBalance)
	}

	acc.Balance -= amount
	setAccount(ctx, from, acc)
	storage.Put(ctx, supplyKey, getSupply(ctx)-amount)

	runtime.Notify("Burn", from, amount)
	runtime.Notify("Transfer", from, interop.Hash160(nil), amount)
}

// FreezeAccount blocks the account from any value-moving operations. It can
// be invoked only by the token administrator. Freezing an already frozen
// account is a no-op.
//
// It produces Freeze notification.
func FreezeAccount(account interop.Hash160) {
	setFrozen(account, true)
	runtime.Notify("Freeze", account)
}

// UnfreezeAccount lifts the restriction set by FreezeAccount. It can be
// invoked only by the token administrator. Unfreezing an account that is not
// frozen is a no-op.
//
// It produces Unfreeze notification.
func UnfreezeAccount(account interop.Hash160) {
	setFrozen(account, false)
	runtime.Notify("Unfreeze", account)
}

// SetAdmin transfers administrator rights to another account. It can be
// invoked only by the current administrator.
//
// It produces SetAdmin notification.
func SetAdmin(newAdmin interop.Hash160) {
	checkAddress(newAdmin)

	ctx := storage.GetContext()
	admin := readAdmin(ctx)
	common.CheckAdminWitness(admin)

	storage.Put(ctx, adminKey, newAdmin)

	runtime.Notify("SetAdmin", admin, newAdmin)
}

// BalanceOf returns the token balance of the specified account. Missing
// accounts have zero balance.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getAccount(ctx, account).Balance
}

// IsFrozen returns true if the specified account is frozen.
func IsFrozen(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return getAccount(ctx, account).Frozen
}

// AllowanceOf returns the stored allowance record for the (owner, spender)
// pair as is, ignoring expiration. Missing records are zero.
func AllowanceOf(owner, spender interop.Hash160) Allowance {
	ctx := storage.GetReadOnlyContext()
	return getAllowance(ctx, makeAllowanceKey(owner, spender))
}

// EffectiveAllowance returns the amount the spender can actually move out of
// the owner's account at the current ledger index: zero if the grant has
// expired, the stored amount otherwise.
func EffectiveAllowance(owner, spender interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	a := getAllowance(ctx, makeAllowanceKey(owner, spender))
	return effectiveAmount(a, ledger.CurrentIndex())
}

// Admin returns the token administrator.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return readAdmin(ctx)
}

// TotalSupply returns the total amount of minted and not yet burnt tokens.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return getSupply(ctx)
}

// Decimals returns the decimal precision of the token.
func Decimals() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, decimalsKey).(int)
}

// Name returns the token name.
func Name() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, nameKey).(string)
}

// Symbol returns the token ticker symbol.
func Symbol() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, symbolKey).(string)
}

// Accounts returns an iterator over all accounts known to the contract.
// Iteration is through account script hashes.
func Accounts() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{accountPrefix},
		storage.KeysOnly|storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// move performs freeze- and balance-checked debit of from and credit of to.
// Caller is responsible for authorization and notifications.
func move(ctx storage.Context, from, to interop.Hash160, amount int) {
	accFrom := getAccount(ctx, from)
	if accFrom.Frozen {
		panic(tokenconst.ErrAccountFrozen)
	}

	accTo := getAccount(ctx, to)
	if accTo.Frozen {
		panic(tokenconst.ErrAccountFrozen)
	}

	if accFrom.Balance < amount {
		panic(tokenconst.ErrInsufficientBalance)
	}

	accFrom.Balance -= amount
	setAccount(ctx, from, accFrom)

	// Self-transfer must not double the balance through a stale read.
	accTo = getAccount(ctx, to)
	accTo.Balance = checkedAdd(accTo.Balance, amount)
	setAccount(ctx, to, accTo)
}

func setFrozen(account interop.Hash160, frozen bool) {
	checkAddress(account)

	ctx := storage.GetContext()
	common.CheckAdminWitness(readAdmin(ctx))

	acc := getAccount(ctx, account)
	acc.Frozen = frozen
	setAccount(ctx, account, acc)
}

func readAdmin(ctx storage.Context) interop.Hash160 {
	admin := storage.Get(ctx, adminKey)
	if admin == nil {
		panic(tokenconst.ErrUninitialized)
	}

	return admin.(interop.Hash160)
}

func getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, supplyKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

func getAccount(ctx storage.Context, key interop.Hash160) Account {
	data := storage.Get(ctx, append([]byte{accountPrefix}, key...))
	if data != nil {
		return std.Deserialize(data.([]byte)).(Account)
	}

	return Account{}
}

// setAccount persists the account record. An empty unfrozen account is
// removed instead, it is indistinguishable from a never-created one.
func setAccount(ctx storage.Context, key interop.Hash160, acc Account) {
	var accKey = append([]byte{accountPrefix}, key...)

	if acc.Balance == 0 && !acc.Frozen {
		storage.Delete(ctx, accKey)
	} else {
		common.SetSerialized(ctx, accKey, acc)
	}
}

func getAllowance(ctx storage.Context, key []byte) Allowance {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(Allowance)
	}

	return Allowance{}
}

func makeAllowanceKey(owner, spender interop.Hash160) []byte {
	return append(append([]byte{allowancePrefix}, owner...), spender...)
}

func effectiveAmount(a Allowance, currentIndex int) int {
	if currentIndex > a.Expiration {
		return 0
	}

	return a.Amount
}

func checkedAdd(balance, amount int) int {
	if balance > maxBalance-amount {
		panic(tokenconst.ErrBalanceOverflow)
	}

	return balance + amount
}

func checkNonNegativeAmount(amount int) {
	if amount < 0 {
		panic(tokenconst.ErrInvalidAmount)
	}
}

func checkAddress(addr interop.Hash160) {
	if len(addr) != interop.Hash160Len {
		panic(tokenconst.ErrInvalidAddress)
	}
}
