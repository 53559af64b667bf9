// Package websocket pushes live match events to spectating clients.
//
// The Hub groups connections by match ID and fans each published event out
// to every connection watching that match. It implements match.Broadcaster,
// so the match engine publishes round starts, move results, round
// settlements, and the final result without knowing about connections.
//
// Delivery is best-effort. A client that cannot keep up with its send
// buffer is disconnected rather than allowed to stall the hub, and events
// published while the hub's queue is full are dropped with a log line.
// Clients reconnect and fetch the authoritative state over the service API.
package websocket
