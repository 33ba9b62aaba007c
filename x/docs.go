/*
Package x contains the standard extensions of the chain.

Extensions implement common functionality (Handler, Decorator,
Initializer, query handlers) and are combined together in the
application to construct the state machine.
*/
package x
