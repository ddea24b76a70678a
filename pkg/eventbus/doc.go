// Package eventbus provides the cross-service event notification layer:
// a shared AMQP connection manager, a queue publisher, a consume loop with
// manual acknowledgement, and a startup-time handler registry.
//
// Delivery is at-least-once. The broker may redeliver any message, so every
// handler bound through this package must be idempotent: applying it twice
// to the same event must leave the same end state as applying it once. No
// ordering is guaranteed across messages, and none may be assumed.
package eventbus
