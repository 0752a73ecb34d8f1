package model

// HealthStatus is the health endpoint response of the pipeline server
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
