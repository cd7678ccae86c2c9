package leads

import (
	"fmt"

	"catalog-backend/internal/model"
)

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ServiceMessage renders a service listing request.
func ServiceMessage(f model.ServiceRequest) string {
	return fmt.Sprintf("*New Service Request*\n\n🔧 *Service Name*: %s\n📞 *Phone*: %s\n📝 *Description*: %s",
		f.Name, f.Phone, orDefault(f.Description, "-"))
}

// PreOwnedMessage renders a pre-owned product request.
func PreOwnedMessage(f model.PreOwnedRequest) string {
	return fmt.Sprintf("*New Pre-Owned Product Request*\n\n📦 *Name*: %s\n💰 *Price*: ₹%s\n📂 *Category*: %s\n📞 *Phone*: %s\n📝 *Description*: %s\n\n📷 User will send image separately. Please verify and post this product.",
		f.Name, f.Price, f.Category, f.Phone, orDefault(f.Description, "-"))
}

// ManufacturerMessage renders a manufacturer listing request.
func ManufacturerMessage(f model.ManufacturerRequest) string {
	return fmt.Sprintf("🛠️ *New Manufacturer Request*\n\n📛 Name: %s\n📦 Type: %s\n💰 Price: ₹%s\n📝 Note: %s\n\n📸 Please send product image here.",
		f.Name, f.ProductType, f.Price, orDefault(f.Note, "N/A"))
}

// EventMessage renders an event submission.
func EventMessage(f model.EventSubmission) string {
	return fmt.Sprintf("*Event Submission Request*\n\n🎉 *Title*: %s\n📅 *Date*: %s\n📍 *Location*: %s\n📝 *Description*: %s\n🖼 *Image URL*: %s\n\nPlease review and publish this event.",
		f.Title, f.Date, f.Location, orDefault(f.Description, "-"), orDefault(f.Image, "-"))
}
