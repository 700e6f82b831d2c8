package domain

// TicketSummary is the normalised incident picture from the ticketing system.
type TicketSummary struct {
	// TotalHighPriority counts open incidents at the high-priority levels.
	TotalHighPriority int `json:"totalHighPriority"`

	// ByPriority breaks the total down per priority label.
	ByPriority []PriorityCount `json:"byPriority"`

	// Instance is the ticketing instance the numbers came from.
	Instance string `json:"instance,omitempty"`
}

// PriorityCount is one row of the priority breakdown.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}
