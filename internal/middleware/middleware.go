// Package middleware provides gin middleware shared by all HTTP routes:
// request IDs, request body limits, and Prometheus instrumentation.
package middleware
