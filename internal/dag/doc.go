// Package dag builds the dependency graph that decides in which order code
// generators run. It takes the workspace package graph and the declared
// codegen units, builds an index-addressed graph whose edges are either plain
// dependencies or "is generated by" links, rejects cyclic configurations, and
// schedules the units with a post-order traversal.
//
// Traversals use explicit stacks, so arbitrarily deep workspaces do not grow
// the goroutine stack.
package dag
