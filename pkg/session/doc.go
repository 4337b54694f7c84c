/*
Package session coordinates access to editing sessions.

A Manager wraps a ports.DefinitionStore and guarantees that one session never sees
concurrent mutation: every operation runs under a reference-counted per-session mutex
and, when a ports.DistributedLocker is configured, a lock shared by all replicas.
*/
package session
