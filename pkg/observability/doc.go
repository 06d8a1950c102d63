/*
Package observability turns surveyor lifecycle events into Prometheus metrics.

Metrics are exposed through domain.LifecycleHooks, so they can be attached to any
Surveyor with surveyor.WithLifecycleHooks and combined with logging hooks via Combine.
*/
package observability
