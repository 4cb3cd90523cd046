/*
Package paymentledger contains PaymentLedger contract.

PaymentLedger is a payment-intake contract for a single designated NEP-17
token fixed at deploy time. A payer approves the ledger as a spender on the
token and invokes Pay; the ledger pulls the requested amount through the
token's delegated-transfer method and appends an immutable record of the
payment. The recorded amount is derived by balance-delta accounting: the
ledger measures its own token balance before and after the pull and records
the difference, so fee-charging and otherwise non-conformant tokens that
deliver less than the nominal amount are accounted correctly. A pull that
delivers nothing is rejected.

The payment log is append-only: records are indexed in commit order, never
changed and never removed, and the per-payer running total always equals
the sum of that payer's recorded amounts.

The contract owner controls a pause switch gating Pay, withdraws held
tokens with Withdraw/WithdrawAll, and rescues foreign tokens accidentally
held by the contract with Sweep. Withdrawals and sweeps remain available
while paused. Ownership is handed over in two steps: the owner nominates a
successor and keeps control until the successor accepts.

Every token-moving method is wrapped in a reentrancy guard: a nested call
into the ledger made by a malicious or buggy token while an outer
invocation is in progress fails immediately.

Direct token or GAS transfers to the contract are rejected in
OnNEP17Payment since they have no accounting path.

# Contract notifications

PaymentReceived notification. Emitted on every recorded payment with the
actually received amount.

	PaymentReceived:
	  - name: payer
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: memo
	    type: String

Withdrawal notification. Emitted by Withdraw and WithdrawAll.

	Withdrawal:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Sweep notification. Emitted when a foreign token is rescued.

	Sweep:
	  - name: token
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

OwnershipTransferred notification. Emitted when a nominated owner accepts
the handover.

	OwnershipTransferred:
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160
*/
package paymentledger

/*
Contract storage model.

# Summary
Key-value storage format:
  - 't' -> interop.Hash160
    designated payment token contract
  - 'o' -> interop.Hash160
    contract owner
  - 'p' -> interop.Hash160
    pending owner, present only while an ownership transfer is in flight
  - 's' -> int
    pause flag, present only while payments are paused
  - 'reentrancyGuard' -> int
    reentrancy flag, present only strictly inside one guarded invocation
  - 'n' -> int
    number of recorded payments
  - 'P' + index -> std.Serialize(PaymentRecord)
    payment records, indexed from zero in commit order
  - 'T' + payer -> int
    running total of amounts received from the payer

# Payment log
'P'-prefixed entries are written once and never mutated; 'n' only grows.
The 'T' entry of every payer equals the sum of Amount over that payer's
'P' entries at all times.
*/
