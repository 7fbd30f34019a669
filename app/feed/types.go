package feed

// Item is the canonical record every fetched entry is normalized
// into, and the exact shape of one element of the JSON output.
type Item struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Summary  string   `json:"summary"`
	IsoDate  string   `json:"isoDate"`
	Source   string   `json:"source"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image"`
	Pinned   bool     `json:"pinned"`
}

// TimeLayout is the ISO-8601 UTC format used for IsoDate. All
// timestamps in the system render through this single layout, so
// lexicographic order on IsoDate is chronological order.
const TimeLayout = "2006-01-02T15:04:05Z"
