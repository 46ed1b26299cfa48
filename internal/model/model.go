// Package model defines the records exchanged with the admin REST API.
package model

// Entity is a record with a backend-assigned integer identity.
type Entity interface {
	EntityID() int
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
