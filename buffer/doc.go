// Package buffer fetches, decodes, and caches audio sources as
// ready-to-play mono sample buffers.
//
// Sources are addressed by URL: either an http(s) absolute URL or a
// sandboxed "/sounds/..." path resolved under a configured local root.
// Any other form is rejected before I/O is attempted.
//
// Decoded buffers are cached with FIFO eviction: once the cache holds
// its configured maximum, the oldest-inserted entry is removed. A cache
// hit never performs I/O.
//
// Load never fails for a valid URL. If the fetch or decode goes wrong,
// a short synthesized tone is returned instead, so an alert always has
// something audible to play.
package buffer
