// Package engine defines the contract between pipeline construction and the
// media engine that actually moves buffers.
//
// The pipeline package only creates nodes, sets their properties, links them
// and drives the graph run state. Everything behind these interfaces (codecs,
// demuxing, network I/O, scheduling) belongs to the engine implementation:
//
//   - gstengine wraps GStreamer through go-gst and is used in production.
//   - enginetest is an in-memory implementation that enforces the same graph
//     invariants and records what was built, for tests.
//
// Nodes are owned by the graph once added. Code outside the engine must not
// touch a node after the graph has been set to Playing.
package engine
