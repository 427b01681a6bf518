// Package stability infers that an upload has finished by sampling a folder tree
// until two consecutive samples, one poll interval apart, match.
//
// Sampler measures (total size, file count, latest modification time) for a tree
// and retries transient failures, since the watched root is often a network
// mount. Detector drives the polling loop and distinguishes three endings:
// stable, content deleted (a non-empty tree became empty), and timeout.
//
// A folder that is empty on both of the first two samples counts as stable.
package stability
