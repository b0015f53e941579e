/*
Package cash keeps the balance of every account.

There is a single unit of account and no logic in it, except that the
balance of an account may never go below zero. Thus, this implementation
is referred to as cash. Simple and safe.

Balances are stored in the "cash" bucket, keyed by the account address.
*/
package cash
