// Package observability provides Prometheus metrics, health probes, and
// the structured logger setup for the Gatehouse service.
//
// Metrics cover the HTTP surface (request counts and latencies) and the
// authentication domain: login attempts by outcome, signups, token
// verifications by outcome, and an registered-accounts gauge refreshed on a
// schedule from the account store.
//
// Health endpoints follow the liveness/readiness split: liveness answers
// whenever the process runs, readiness also pings the account store.
package observability
