/*
Package wallet implements a multi approver custodial wallet.

A fixed set of approvers jointly authorizes outbound transfers from a
shared balance. Any approver can request a transfer. Each approver can
approve a transfer once and the transfer is executed as part of the
approval that reaches the configured quorum. An executed transfer is
never executed again and no transfer is ever deleted.

The approvers and the quorum are set once, from the genesis file, and
cannot be changed afterwards. The shared balance is held by the wallet
account (see Address) in the cash extension. Anyone can deposit into it.
*/
package wallet
