package clients

import (
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned when a client does not exist.
var ErrNotFound = errors.New("clients: client not found")

// Client is a salon customer. Clients are read-only inputs to recommendations
// and outreach.
type Client struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	PrimaryInterest string     `json:"primaryInterest"`
	Preferences     string     `json:"preferences"`
	Issues          string     `json:"issues"`
	LastVisit       *time.Time `json:"lastVisit"`
	TotalVisits     int        `json:"totalVisits"`
	Tags            []string   `json:"tags"`
}

// HistoryEntry is one past visit of a client.
type HistoryEntry struct {
	ID       int64     `json:"-"`
	ClientID string    `json:"-"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Status   string    `json:"status"`
	Services []string  `json:"services"`
	Products []string  `json:"products"`
}

// VisitSummary condenses a client's history for outreach heuristics.
type VisitSummary struct {
	Visits        int
	ServiceCounts map[string]int
}

// MostFrequentService returns the most booked service. Ties go to the
// lexicographically smallest name.
func (v VisitSummary) MostFrequentService() (string, bool) {
	if len(v.ServiceCounts) == 0 {
		return "", false
	}
	names := make([]string, 0, len(v.ServiceCounts))
	for name := range v.ServiceCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if v.ServiceCounts[name] > v.ServiceCounts[best] {
			best = name
		}
	}
	return best, true
}

// Summarize groups history entries by client.
func Summarize(entries []HistoryEntry) map[string]VisitSummary {
	out := make(map[string]VisitSummary)
	for _, e := range entries {
		sum, ok := out[e.ClientID]
		if !ok {
			sum = VisitSummary{ServiceCounts: make(map[string]int)}
		}
		sum.Visits++
		for _, svc := range e.Services {
			sum.ServiceCounts[svc]++
		}
		out[e.ClientID] = sum
	}
	return out
}
