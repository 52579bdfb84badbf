// Package graph holds the node-link model driven by the layout engine.
//
// A [Graph] is fixed in shape once built: nodes and links never change after
// [New] returns. What does change is per-node simulation state:
//
//   - position and velocity, owned by the simulation engine while ticking
//   - [Pin], owned by the interaction controller during a drag
//   - the selection flag
//
// Links are resolved from id strings to node pointers exactly once, in [New].
// Links naming an unknown node are dropped rather than failing the build.
package graph
