package natsadapter

import "github.com/samirrijal/searoute/internal/core/domain"

const (
	// StreamVoyageEvents holds every voyage event for an hour.
	StreamVoyageEvents = "VOYAGE_EVENTS"

	subjectRoot = "voyage"
)

// VoyageSubject is the subject an event is published on: voyage.<id>.<type>.
func VoyageSubject(voyageID string, t domain.EventType) string {
	return subjectRoot + "." + voyageID + "." + string(t)
}

// VoyageFilter matches every event of one voyage, or of all voyages when
// voyageID is empty.
func VoyageFilter(voyageID string) string {
	if voyageID == "" {
		return subjectRoot + ".>"
	}
	return subjectRoot + "." + voyageID + ".>"
}
