// Package ui contains the Fyne desktop interface. RootUI owns the download
// service: every service call, including the periodic Poll, runs on the Fyne
// goroutine.
package ui
