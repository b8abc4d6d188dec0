// Package newsletter implements the newsletter signup widget.
//
// The widget owns two pieces of transient state: the address being typed
// and the confirmation message shown after a submit. A submit with a
// non-empty address shows the confirmation, clears the address and
// schedules the message to clear after a fixed delay. A submit with an
// empty address does nothing. Nothing is sent anywhere and nothing is
// stored.
//
// The pending clear is an effect cleanup owned by the widget, so Dispose
// cancels it.
package newsletter
