// Package ioutils provides file system utilities for keymix.
//
// This package contains functions for:
//   - Audio file discovery
//   - Key hints in file names
//   - Atomic file writing
//
// # Scanning
//
//	files, err := ioutils.ScanAudio("/music/crate", true, nil)
//
// # Key hints
//
// Many DJ libraries prefix or suffix file names with the Camelot key:
//
//	key, ok := ioutils.KeyFromFileName("8A - Prophecy.mp3") // 8A, true
//
// # Writing
//
//	err := ioutils.WriteFileAtomic(ctx, "/music/sets/friday.m3u", content)
package ioutils
