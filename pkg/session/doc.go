/*
Package session holds the explicit session context of a bridge process.

A Session owns the link to one engine instance (connection context), the
registry of tracked documents with its single active slot (document context)
and one sketch state machine per document (sketch context). One mutex guards
the whole set. Document handles are weak references: the engine owns the
documents and every implicit resolution re-validates the reference first.
*/
package session
