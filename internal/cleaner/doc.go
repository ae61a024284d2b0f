// Package cleaner turns raw generator output into the fake-name pool.
//
// A pass loads the canonical real-name corpus, walks the raw directory for
// text files, drops separator artifacts, and appends every remaining name
// that does not collide with the canonical corpus to the pool file. Pool
// growth is append-only; without Options.SkipExisting, overlapping passes may
// append the same name twice, and the ledger is what keeps it from being
// published twice.
//
// [Watcher] keeps the pool current by cleaning each raw file as it is
// created or rewritten.
package cleaner
