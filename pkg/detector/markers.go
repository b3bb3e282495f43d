package detector

import "regexp"

// Marker is a log line that only appears when Maven builds modules
// concurrently.
type Marker struct {
	Builder  string         // Builder implementation name
	Pattern  *regexp.Regexp // Matches the marker line
	Threads  int            // Submatch index of the thread count, 0 if none
	Examples []string       // Example lines
}

// DefaultMarkers returns the built-in parallel builder markers.
func DefaultMarkers() []*Marker {
	return []*Marker{
		{
			Builder: "MultiThreadedBuilder",
			Pattern: regexp.MustCompile(`MultiThreadedBuilder(?:.*thread count of\s+(\d+))?`),
			Threads: 1,
			Examples: []string{
				"[INFO] Using the MultiThreadedBuilder implementation with a thread count of 4",
			},
		},
		{
			// takari-smart-builder
			Builder: "SmartBuilder",
			Pattern: regexp.MustCompile(`SmartBuilder(?:.*thread count of\s+(\d+))?`),
			Threads: 1,
			Examples: []string{
				"[INFO] Using the SmartBuilder implementation with a thread count of 8",
			},
		},
	}
}
