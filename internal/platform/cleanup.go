package platform

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ytget/yt-queue/internal/model"
)

// Suffixes yt-dlp leaves next to an unfinished download
const (
	PartSuffix    = ".part"
	SidecarSuffix = ".ytdl"
)

// SkippedExtensions are never reported as finished media
var (
	SkippedExtensions = []string{PartSuffix, SidecarSuffix}
)

// CleanupCandidates expands observed paths with the sibling artifacts a
// partial download may have left. The result is deduplicated and sorted.
func CleanupCandidates(paths []string) []string {
	set := make(map[string]struct{}, len(paths)*4)
	for _, p := range paths {
		if p == "" {
			continue
		}
		set[p] = struct{}{}
		set[p+PartSuffix] = struct{}{}
		set[p+SidecarSuffix] = struct{}{}
		if strings.HasSuffix(p, PartSuffix) {
			set[strings.TrimSuffix(p, PartSuffix)] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DeleteTaskFiles removes every existing regular file among the cleanup
// candidates of paths. Missing files are skipped; removal failures are
// collected and never stop the loop.
func DeleteTaskFiles(paths []string) model.CleanupReport {
	var report model.CleanupReport
	for _, p := range CleanupCandidates(paths) {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		report.Removed++
	}
	return report
}

// IsPartialArtifact reports whether name is a temporary download artifact
func IsPartialArtifact(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
