/*
Package x contains the helpers shared by all extensions.

Extensions implement common functionality (Handler, Decorator,
Initializer) and are combined together to construct an application.
All sub-packages are extensions: x/cash keeps account balances, x/wallet
implements the multi approver wallet and x/utils provides decorators
useful for any application.
*/
package x
