/*
Package treeprog is a synthetic program for exercising the Surveyor.

Its paths form a complete tree: every path below Depth branches into Branching
successors, leaves deadend, and paths whose heap ordinal is a multiple of
ErrorEvery record a simulated fault. Each path carries a payload of PayloadBytes
to stand in for solver state, which Suspend(persist=true) moves into a
ports.SnapshotStore until Resume brings it back.

Everything is deterministic, so two explorations of the same Config visit the
same paths in the same order when ticked sequentially.
*/
package treeprog
