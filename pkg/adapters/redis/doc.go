// Package redis keeps session snapshots in Redis and provides the
// engine-instance lock that stops two bridge processes from driving
// the same engine.
package redis
