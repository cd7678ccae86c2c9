package model

// Lead form kinds.
const (
	LeadService      = "service"
	LeadPreOwned     = "preowned"
	LeadManufacturer = "manufacturer"
	LeadEvent        = "event"
)

// ServiceRequest asks the admin to list a new service provider.
type ServiceRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Description string `json:"description"`
}

// PreOwnedRequest asks the admin to post a pre-owned product.
type PreOwnedRequest struct {
	Name        string `json:"name" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Description string `json:"description"`
}

// ManufacturerRequest asks the admin to list a manufacturer product.
type ManufacturerRequest struct {
	Name        string `json:"name" validate:"required"`
	ProductType string `json:"product_type" validate:"required"`
	Price       string `json:"price" validate:"required"`
	Note        string `json:"note"`
}

// EventSubmission asks the admin to publish an event.
type EventSubmission struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
