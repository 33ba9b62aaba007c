/*
Package coffer holds the interfaces shared by the packages of the vault
node (handlers, decorators, stores, messages) together with the small
pieces that are simpler as plain code than as another interface.

Extensions live under x/. The vault extension (x/vault) implements a
multisig custody account with a petty cash fast path and a dead man's
switch, holding its funds in an x/cash wallet.
*/
package coffer
