package dto

import "time"

type CascadeRequest struct {
	SystemName string `query:"system_name"`
	Module     string `query:"module"`
	Feature    string `query:"feature"`
	Client     string `query:"client"`
	Source     string `query:"source"`
	Q          string `query:"q"`
}

type ReferenceEntityResponse struct {
	Id        int64     `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PurgeInactiveResponse struct {
	Category string `json:"category"`
	Purged   int64  `json:"purged"`
}
