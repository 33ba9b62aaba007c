/*
Package vault implements a custodial account owned jointly by a fixed set
of owners.

Owners move funds out of the vault in two ways. Transfers below the petty
cash limit execute immediately. Larger transfers are recorded as
transactions that execute once enough distinct owners voted for them.

Every successful owner action records the current block height. When no
owner acted for the configured number of blocks, any owner may trigger
the dead man's switch, which moves the whole balance to the backup
beneficiary.

Funds are held by the cash extension under the address returned by
Account. Deposits are plain cash transfers to that address.
*/
package vault
