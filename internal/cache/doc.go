// Package cache stores resolved track keys between runs.
//
// Entries live in a badger database keyed by file path. Each entry records
// the file's modification time and size when it was stored, and a lookup
// only hits while both are unchanged:
//
//	store, err := cache.Open("~/.cache/keymix")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if entry, ok, err := store.Get(path); err == nil && ok {
//	    fmt.Println(entry.Key) // 8A
//	}
//
// Store is safe for concurrent use.
package cache
