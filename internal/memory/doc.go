// Package memory remembers which launch strategy last worked for a target and
// a piece of content, so repeat launches go straight to it.
//
// Records are keyed by the target ID plus the most specific identifier of the
// request (see Key and KeyOrder) and hold a Strategy such as search or
// deepLink[2]@<uri>, which names the link that worked as well as its index. They
// are overwritten on every success and never expire: a stale record costs one
// failed attempt before the launch falls through and the record is replaced.
//
// The package also keeps the verified tier: URI templates that have led to a
// confirmed launch, offered first the next time the target is resolved.
//
// Storage is a string key/value Store. BadgerStore persists to disk and is
// the default; MapStore keeps everything in process memory.
package memory
