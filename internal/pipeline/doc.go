// Package pipeline turns a folder of audio files into a sorted DJ set.
//
// # Manager
//
// The Manager coordinates the whole process:
//
//  1. Collect audio files from the input paths
//  2. Resolve each track's key (cache, ID3 tag, file name)
//  3. Sort the keyed tracks with the melodic search
//  4. Write the playlist (optional)
//
// # Basic Usage
//
//	manager := pipeline.NewManager(settings, store, func(event pipeline.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	set, err := manager.Run(ctx, []string{"/music/crate"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Key lookups run in parallel, limited by settings.MaxConcurrentAnalyses.
// Every track is resolved into its own slot, so the sorted result does not
// depend on scheduling.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Tracks without a key produce a Warning and are left out of the set
// unless settings.AppendUnkeyed is true.
package pipeline
