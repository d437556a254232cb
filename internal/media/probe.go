package media

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDuration returns the duration of a media file in seconds using
// ffprobe. It is the boundary where an uploaded or project-referenced
// file's length enters the core.
func ProbeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: bad duration %q: %w", path, strings.TrimSpace(string(output)), err)
	}
	return duration, nil
}

// HaveProbe reports whether ffprobe is available on PATH.
func HaveProbe() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// HavePlayer reports whether ffplay is available on PATH.
func HavePlayer() bool {
	_, err := exec.LookPath("ffplay")
	return err == nil
}
