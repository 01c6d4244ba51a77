// Package otel provides an OpenTelemetry observer for treectx. It opens
// one span per context lifetime and one per spawned race, carrying ids,
// cancellation source and race outcome as attributes.
package otel
