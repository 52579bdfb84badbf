// Package forces provides the force contributors of the layout engine.
//
// Four forces combine additively each tick:
//
//   - [Link]: springs pulling linked nodes toward a target distance
//   - [ManyBody]: pairwise charge, negative strength repels
//   - [Center]: translates the node set so its centroid sits on a point
//   - [Collide]: separates nodes whose discs overlap
//
// A [Field] groups them under the names "link", "charge", "center" and
// "collision" and exposes [Field.SetParameter] for live tuning.
//
// Forces only touch node velocities (Center moves positions directly). The
// engine integrates velocities into positions and enforces pins.
//
// # Scaling
//
// ManyBody and Collide are evaluated pairwise, O(n^2) per tick. That is fine
// up to low thousands of nodes; beyond that a quad-tree approximation can be
// dropped in behind the same [Force] interface.
package forces
