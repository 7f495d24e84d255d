package platform

// Package platform contains OS integration and external tooling glue:
// output directory handling, cleanup of partial downloads, ffmpeg discovery,
// playlist listing via the ytdlp library, and folder reveal.
