package trip

// LinkSource tags where a merged link row comes from. Manual rows live in
// the links collection; event rows are projections of an itinerary event
// with a booking URL and are never stored separately.
type LinkSource string

const (
	LinkSourceManual LinkSource = "manual"
	LinkSourceEvent  LinkSource = "event"
)

// MergedLink is one row of the read-only booking-links view. For event
// rows, DayIndex/EventIndex locate the owning event so edits can be
// dispatched back to the days collection.
type MergedLink struct {
	BookingLink
	Source     LinkSource `json:"source"`
	DayIndex   int        `json:"dayIndex,omitempty"`
	EventIndex int        `json:"eventIndex,omitempty"`
}

// MergeLinks projects itinerary events carrying a booking URL ahead of
// the manually stored links, matching the presentation order of the hub.
func MergeLinks(days []Day, links []BookingLink) []MergedLink {
	merged := make([]MergedLink, 0, len(links))
	for di, day := range days {
		for ei, ev := range day.Events {
			if ev.BookingURL == "" {
				continue
			}
			merged = append(merged, MergedLink{
				BookingLink: BookingLink{
					ID:      ev.ID,
					Title:   ev.Title,
					Kind:    string(ev.Kind),
					URL:     ev.BookingURL,
					Details: ev.Notes,
				},
				Source:     LinkSourceEvent,
				DayIndex:   di,
				EventIndex: ei,
			})
		}
	}
	for _, l := range links {
		merged = append(merged, MergedLink{BookingLink: l, Source: LinkSourceManual})
	}
	return merged
}
