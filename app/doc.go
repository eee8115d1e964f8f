/*
Package app contains the ABCI application glue: the message router, the
decorator chain, the commit store bookkeeping and the StoreApp/BaseApp pair
that tendermint talks to.
*/
package app
