/*
Package utils provides decorators useful for any application: Savepoint
makes every transaction all-or-nothing, Logging records processed
transactions and Recovery turns panics into errors.
*/
package utils
