// Package download implements the task lifecycle engine on top of yt-dlp
// (via internal/engine). Workers run one goroutine per task generation and
// report through an events.Queue; Service owns every task and playlist batch
// and is driven by a single goroutine calling Poll.
package download
