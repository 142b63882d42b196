package dto

type TeamRequestCountDTO struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

type DashboardStatsDTO struct {
	TotalRequests   uint64                `json:"total_requests"`
	NewCount        uint64                `json:"new_count"`
	InProgressCount uint64                `json:"in_progress_count"`
	RepairedCount   uint64                `json:"repaired_count"`
	ScrapCount      uint64                `json:"scrap_count"`
	OverdueCount    uint64                `json:"overdue_count"`
	TeamCounts      []TeamRequestCountDTO `json:"team_counts"`
}
