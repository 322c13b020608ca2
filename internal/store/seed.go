package store

import "github.com/starford/datahub/internal/models"

// SeedRecords returns the initial record collection loaded at startup.
func SeedRecords() []models.DataRecord {
	return []models.DataRecord{
		{
			ID:          "1",
			Name:        "Q1 Sales Report",
			Category:    "Sales",
			Status:      models.StatusActive,
			Date:        "2024-01-15",
			Value:       45000,
			Description: "First quarter sales performance analysis",
		},
		{
			ID:          "2",
			Name:        "Marketing Budget",
			Category:    "Finance",
			Status:      models.StatusActive,
			Date:        "2024-01-20",
			Value:       25000,
			Description: "Annual marketing budget allocation",
		},
		{
			ID:          "3",
			Name:        "Employee Directory",
			Category:    "HR",
			Status:      models.StatusActive,
			Date:        "2024-01-10",
			Value:       0,
			Description: "Complete employee contact information",
		},
		{
			ID:          "4",
			Name:        "Inventory Report",
			Category:    "Operations",
			Status:      models.StatusPending,
			Date:        "2024-01-25",
			Value:       12500,
			Description: "Monthly inventory status update",
		},
		{
			ID:          "5",
			Name:        "Client Contracts",
			Category:    "Legal",
			Status:      models.StatusArchived,
			Date:        "2023-12-01",
			Value:       150000,
			Description: "Archived client contract documents",
		},
		{
			ID:          "6",
			Name:        "Project Timeline",
			Category:    "Operations",
			Status:      models.StatusActive,
			Date:        "2024-01-28",
			Value:       0,
			Description: "Q1 project milestones and deadlines",
		},
	}
}
