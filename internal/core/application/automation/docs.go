// Package automation runs workflow rules against committed order lifecycle
// events.
//
// Dispatch is called after the transaction that produced the events has
// committed. For every event the engine:
//   - publishes the event on the event bus (best effort)
//   - sends the lifecycle's own notifications
//   - evaluates the cached active rules for the event type against a
//     snapshot of the order and runs the actions of every matching rule in
//     declared order
//
// Notifications produced while handling one event share a sink.Scope, so a
// recipient hears about an event once no matter how many rules address them.
// Events produced by actions (order.assigned) are handled in one follow-up
// pass; events produced during that pass are dropped.
package automation
