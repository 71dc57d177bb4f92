/*
Package token implements Glacier token contract.

Glacier is an administrator-governed fungible token. The administrator is
set once with Initialize and can be replaced by itself with SetAdmin. The
administrator mints new tokens and can freeze any account; a frozen account
can neither send nor receive assets and cannot burn. Holders move their own
assets with Transfer and can delegate a capped, time-limited spending
permission to another account with Approve, which the spender consumes with
TransferFrom. Allowances expire lazily: a grant whose expiration ledger index
is below the current one spends as zero, no background cleanup is involved.

All state-changing methods check the transaction witness before touching
storage, so a failed authorization never leaves partial writes; any other
failure aborts the invocation and the VM discards all writes of the
transaction.

# Contract notifications

Transfer notification. This is a NEP-17 style notification emitted on every
balance movement; Mint and Burn emit it with an empty counterparty.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Mint notification.

	Mint:
	  - name: admin
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Burn notification.

	Burn:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

Approve notification.

	Approve:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: expiration
	    type: Integer

Freeze and Unfreeze notifications.

	Freeze:
	  - name: account
	    type: Hash160

	Unfreeze:
	  - name: account
	    type: Hash160

SetAdmin notification.

	SetAdmin:
	  - name: oldAdmin
	    type: Hash160
	  - name: newAdmin
	    type: Hash160
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'tokenAdmin' -> interop.Hash160
   script hash of the token administrator
 - 'tokenSupply' -> int
   total amount of minted and not yet burnt tokens
 - 'tokenDecimals' -> int
   decimal precision, written once by Initialize
 - 'tokenName' -> string
   token name, written once by Initialize
 - 'tokenSymbol' -> string
   token ticker symbol, written once by Initialize
 - a<interop.Hash160> -> std.Serialize(Account)
   balance sheet of all token holders (Account is a structure defined in
   current package); records of empty unfrozen accounts are removed
 - l<owner interop.Hash160><spender interop.Hash160> -> std.Serialize(Allowance)
   spending permissions granted with Approve

# Accounting
Contract stores balances and spending permissions of all token holders.
*/
