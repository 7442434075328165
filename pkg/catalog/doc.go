// Package catalog stores canonical ribbon specs in Redis so that generation
// runs can be inspected, filtered and streamed after the fact.
//
// # Overview
//
// Each canonical spec is stored once, under its name, as a Redis hash. Set
// indexes group names by length, and every generation run is recorded with a
// UUID so a spec can be traced back to the bounds that produced it. Storing a
// spec publishes it on the namespace's event channel, which is what
// `agnr watch` follows.
//
// # Namespacing
//
// All keys and channels are prefixed with a namespace so several catalogs can
// share one Redis server without interfering:
//
//	Specs:         agnr:{namespace}:spec:{name}
//	Length index:  agnr:{namespace}:length:{length}
//	Lengths:       agnr:{namespace}:lengths
//	Runs:          agnr:{namespace}:run:{run_id}
//	Run timeline:  agnr:{namespace}:runs
//	Spec events:   agnr:{namespace}:spec_events
//
// # Usage Example
//
//	client, err := catalog.NewClient(&redis.Options{Addr: "localhost:6379"}, "default")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	run := catalog.NewRun(opts)
//	res, _ := ribbon.Enumerate(ctx, opts)
//	entries, _ := catalog.EntriesFromResult(res, run.ID)
//	if _, err := client.PutEntries(ctx, entries); err != nil {
//		log.Fatal(err)
//	}
package catalog
