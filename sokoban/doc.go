// Package sokoban implements the solver/deadlock core of a Sokoban puzzle
// workbench: board geometry and its precomputed indices, a pusher
// reachability engine, a transposition store for visited box
// configurations, a push/pull generator, a suite of deadlock tests, a
// bipartite-matching lower bound, and an iterative-deepening search driver
// built on top of package solve.
//
// Everything outside this package — rendering, a level editor, a solution
// database, replay UI — is a collaborator: it supplies a validated Level
// and consumes the Verdict the driver returns.
package sokoban
