/*
Package cash implements wallets holding the native asset of the chain.

Balances are whole units stored per address. Any extension may move funds
through the Controller, and users transfer funds with SendMsg. Deposits
into the vault are plain transfers to the vault account address.
*/
package cash
