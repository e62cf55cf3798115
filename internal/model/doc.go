// Package model defines the core data structures used throughout
// the keymix application.
//
// # Key
//
// Key is a musical key in Camelot notation, a number 1-12 plus a letter
// (A for minor, B for major):
//
//	k, err := model.ParseCamelot("8A")
//	k, err = model.ParseKey("Am")   // also 8A
//	fmt.Println(k)                  // 8A
//
// Construction fails with ErrInvalidNumber, ErrInvalidLetter or
// ErrMalformedKey, so an invalid key never reaches the sorter.
//
// # Track
//
// Track is one audio file with an optional key:
//
//	track := model.NewTrack(0, "/music/Prophecy - Kanine.mp3")
//	track.SetKey(k, model.SourceTag)
//
// # Set
//
// Set is the sorted result together with its playlist path:
//
//	cfg := &model.PathConfig{
//	    OutputDir:              "/music/sets",
//	    PlaylistFileNameFormat: "{name}",
//	    PlaylistFormat:         model.PlaylistFormatM3U,
//	}
//	set := model.NewSet("Friday", tracks, nil, score, time.Now(), cfg)
//
// Available placeholders: {name}, {date}, {count}
package model
