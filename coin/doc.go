/*
Package coin provides the Amount type used to represent funds.

There is a single unit of account. Amounts are non negative integers of
arbitrary size up to 256 bits. Arithmetic never wraps: an overflow or an
attempt to go below zero is reported as an error.
*/
package coin
