/*
Package x holds the extensions of the escrow daemon: currency, cash, sigs
and escrow. The cmd/escrowd/app package combines their handlers,
decorators and initializers into the application.

The package itself declares Authenticator, which lets a handler ask who
authorized the current transaction without knowing whether the answer
comes from a signature or from an extension such as escrow.
*/
package x
