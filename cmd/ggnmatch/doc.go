// Package main hosts the ggnmatch CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging, the GGN client, the
// rate limiter, and the result sinks together, then hands a catalog to the
// matching engine. Commands stay thin: behaviour belongs in the internal
// packages and is only surfaced here.
package main
