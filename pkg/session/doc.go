/*
Package session records simulation runs into persistent transcripts.

It serializes concurrent writers per session with reference-counted local locks,
optionally backed by a distributed lock, so that read-modify-write cycles on a
transcript never lose runs.
*/
package session
