// Package audio provides audio file services: reading and writing the
// musical key stored in ID3 tags, and rendering sorted sets as playlists.
//
// # ID3 Keys
//
// Use the Tagger to read the TKEY frame of a file:
//
//	tagger := audio.NewTagger(nil)
//	key, err := tagger.ReadKey("/music/track.mp3")
//
// Both Camelot ("8A") and musical ("Am") notation are understood. Writing
// the resolved key back is opt-in:
//
//	tagger := audio.NewTagger(&audio.TagConfig{ModifyTags: true, Key: audio.TagModify})
//	err := tagger.WriteKey(track.Path, key)
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(set)
//	os.WriteFile(set.PlaylistPath, []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
