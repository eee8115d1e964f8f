/*
Package paystream defines the common interfaces that tie together the
streaming payments ledger: addresses and conditions, stores, messages,
transactions, handlers and decorators.

Extensions under x/ implement handlers for a single concern (balances,
identity registry, payment streams) and are composed by the app package
into an ABCI application.

Every handler receives the block information for the transaction being
processed. The block header time is the only clock the ledger knows about,
so that execution stays deterministic.
*/
package paystream
