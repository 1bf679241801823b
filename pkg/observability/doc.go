/*
Package observability turns board lifecycle hooks into logs and metrics.

Metrics registers Prometheus collectors and exposes them as
domain.LifecycleHooks; LogHooks does the same for a slog logger. Chain
combines several hook sets so a board can feed both.
*/
package observability
