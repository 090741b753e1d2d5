// Package engine holds the transform registry: a name-keyed set of
// content-to-content minification engines, each gated by the content
// types it accepts. Engines run in-process, behind an external
// executable, or against a remote compile service.
package engine
