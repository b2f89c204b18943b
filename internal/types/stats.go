package types

// PlatformStats provides aggregate metrics for the status command
type PlatformStats struct {
	Members            int     `json:"members"`
	ActiveJourneys     int     `json:"active_journeys"`
	AverageProgress    float64 `json:"average_progress"`
	PendingDonations   int     `json:"pending_donations"`
	CompletedDonations int     `json:"completed_donations"`
	DonationTotal      float64 `json:"donation_total"`
	QueuedEmails       int     `json:"queued_emails"`
}
