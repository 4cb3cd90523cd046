/*
Package feetoken contains FeeToken contract.

FeeToken is a NEP-17 compatible fungible token extended with delegated
transfers (Approve/TransferFrom allowances) and an optional transfer fee
expressed in basis points. The fee is charged on regular transfers only:
the debited account always loses the full nominal amount, the recipient is
credited with the amount reduced by the fee and the fee goes to the
configured collector account. Issuance (Mint) and destruction (Burn) are
supply changes, not transfers, and never carry a fee.

Fee parameters are controlled by the contract owner fixed at deploy time.
The fee is capped at 10% (1000 basis points) and a valid collector account
is required whenever the fee is positive. Both parameters are validated
before any of them is stored, so a rejected update leaves fee state
untouched.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification emitted per
balance movement, so a fee-bearing transfer produces two of them.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Emitted when a balance owner authorizes a spender.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer

FeeParamsUpdated notification. Emitted when the owner changes fee
parameters.

	FeeParamsUpdated:
	  - name: bps
	    type: Integer
	  - name: collector
	    type: Hash160
*/
package feetoken

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'o' -> interop.Hash160
    contract owner
  - 'f' -> int
    transfer fee in basis points, [0, 1000]
  - 'c' -> interop.Hash160
    fee collector account, set whenever the fee is positive
  - 'supply' -> int
    total number of minted tokens not yet burnt
  - 'b' + account -> int
    token balance of the account, entry is dropped when it reaches zero
  - 'a' + owner + spender -> int
    remaining allowance of the spender over the owner's balance, entry is
    dropped when it reaches zero

# Balances
Sum of all 'b'-prefixed entries always equals the 'supply' value: regular
transfers conserve value (net amount plus fee equals the debited amount)
and only Mint/Burn change the supply.
*/
