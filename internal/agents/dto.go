package agents

import "github.com/google/uuid"

// CreateAgentInput carries the fields needed to enroll an agent.
type CreateAgentInput struct {
	WarehouseID uuid.UUID
	Name        string
	Phone       *string
	Latitude    float64
	Longitude   float64
}
