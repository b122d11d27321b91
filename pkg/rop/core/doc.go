// Package core contains pipeline plumbing utilities: the locomotive loop that
// drives a single stage, feeding helpers, and worker configuration via
// context. It does not define business logic; the stage, pipeline and matrix
// packages build on it.
package core
