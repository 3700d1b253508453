// Package input provides the device-status aggregation core for inputcore.
//
// An input device (a gamepad, a rotary panel, a sensor pod) is represented
// by a DeviceContext: its current configuration, its connection state, and
// the last accepted sample on each of its channels. Producers (protocol
// bridges feeding raw hardware frames) mutate the context; consumers
// register listeners and receive coalesced change notifications.
//
// # Batching
//
// Every mutation runs inside a batch. An explicit batch is opened with
// BeginUpdate and closed with EndUpdate; a mutation made outside an
// explicit batch opens an ambient batch of size one around that single
// call. Notifications are delivered only at batch close, as at most one
// StatusEvent (connection and reconfiguration changes coalesced into its
// flags) followed by the accepted ChannelEvents in acceptance order.
// An empty batch delivers nothing.
//
// # Filtering
//
// Channel samples are clamped to the channel's [Min, Max] before the
// noise check, so a burst of out-of-range frames pinned at a boundary is
// suppressed as duplicates. A sample whose clamped value lies strictly
// within the channel's accuracy of the last accepted value is dropped
// entirely: hardware jitters below its rated accuracy and must not spam
// consumers.
//
// # Thread Safety
//
// All DeviceContext methods are safe for concurrent use. Dispatch
// snapshots the pending events and the listener set under the context
// lock and invokes listeners outside it, so listener code may call back
// into the context (query a sample, re-register) without deadlocking.
// A panic in one listener is isolated and does not starve the rest.
package input
