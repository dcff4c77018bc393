// Package notify implements the realtime notification hub using the actor pattern.
//
// The Hub owns a role-partitioned registry of live WebSocket handles and fans
// notifications out to administrators, a single subject, or everyone. Uses a
// single goroutine + command channel (no mutexes); a heartbeat ticker reaps
// peers that miss two consecutive liveness probes. Delivery is best-effort,
// at-most-once: a failed write evicts the handle and never aborts the fan-out.
package notify
