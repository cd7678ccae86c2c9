package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-backend/internal/model"
)

type memDeduper map[string]bool

func (m memDeduper) Seen(_ context.Context, key string) bool {
	if m[key] {
		return true
	}
	m[key] = true
	return false
}

type recordingPublisher struct {
	events []model.LeadSubmitted
	err    error
}

func (p *recordingPublisher) PublishLead(_ context.Context, evt model.LeadSubmitted) error {
	p.events = append(p.events, evt)
	return p.err
}

func TestSubmit_Service(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewService(memDeduper{}, pub, zap.NewNop())

	form := &model.ServiceRequest{Name: "Ravi Plumbing", Phone: "9876543210"}
	lead, err := s.Submit(context.Background(), "service", "919999999999", form)
	require.NoError(t, err)

	assert.Equal(t, model.LeadService, lead.Kind)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "*New Service Request*\n\n🔧 *Service Name*: Ravi Plumbing\n📞 *Phone*: 9876543210\n📝 *Description*: -", lead.Message)
	assert.Contains(t, lead.URL, "https://wa.me/919999999999?text=")
	assert.Contains(t, lead.URL, "Ravi%20Plumbing")
	assert.NotContains(t, lead.URL, "+")

	require.Len(t, pub.events, 1)
	assert.Equal(t, lead.ID, pub.events[0].ID)
	assert.Equal(t, "service", pub.events[0].Screen)
	assert.Equal(t, "Ravi Plumbing", pub.events[0].Fields["name"])
}

func TestSubmit_MissingFieldsInFormOrder(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewService(nil, pub, zap.NewNop())

	_, err := s.Submit(context.Background(), "preowned", "91", &model.PreOwnedRequest{Price: "100"})
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"name", "category", "phone"}, missing.Fields)
	assert.Empty(t, pub.events)
}

func TestSubmit_NoAdminNumber(t *testing.T) {
	s := NewService(nil, nil, zap.NewNop())
	form := &model.EventSubmission{Title: "Fair", Date: "2025-01-01", Location: "Hall"}
	_, err := s.Submit(context.Background(), "events", "", form)
	assert.ErrorIs(t, err, ErrNoAdminNumber)
}

func TestSubmit_Duplicate(t *testing.T) {
	s := NewService(memDeduper{}, nil, zap.NewNop())
	form := &model.ManufacturerRequest{Name: "Lathe", ProductType: "Machine", Price: "5000"}

	_, err := s.Submit(context.Background(), "manufacturer", "91", form)
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), "manufacturer", "91", form)
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same form on another screen is a different lead.
	_, err = s.Submit(context.Background(), "other", "91", form)
	assert.NoError(t, err)
}

func TestSubmit_PublishFailureStillAccepts(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := NewService(nil, pub, zap.NewNop())
	lead, err := s.Submit(context.Background(), "service", "91", &model.ServiceRequest{Name: "a", Phone: "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.URL)
}

func TestDecode(t *testing.T) {
	form, err := Decode(model.LeadManufacturer, []byte(`{"name":"Lathe","product_type":"Machine","price":"5000"}`))
	require.NoError(t, err)
	assert.Equal(t, &model.ManufacturerRequest{Name: "Lathe", ProductType: "Machine", Price: "5000"}, form)

	_, err = Decode("nope", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode(model.LeadService, []byte(`{`))
	assert.Error(t, err)
}

func TestDecodeFields(t *testing.T) {
	form, err := DecodeFields(model.LeadService, map[string]string{"name": "x", "phone": "1"})
	require.NoError(t, err)
	assert.Equal(t, &model.ServiceRequest{Name: "x", Phone: "1"}, form)
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		"🛠️ *New Manufacturer Request*\n\n📛 Name: Lathe\n📦 Type: Machine\n💰 Price: ₹5000\n📝 Note: N/A\n\n📸 Please send product image here.",
		ManufacturerMessage(model.ManufacturerRequest{Name: "Lathe", ProductType: "Machine", Price: "5000"}))

	assert.Equal(t,
		"*Event Submission Request*\n\n🎉 *Title*: Fair\n📅 *Date*: 1 Jan\n📍 *Location*: Hall\n📝 *Description*: -\n🖼 *Image URL*: -\n\nPlease review and publish this event.",
		EventMessage(model.EventSubmission{Title: "Fair", Date: "1 Jan", Location: "Hall"}))

	assert.Contains(t,
		PreOwnedMessage(model.PreOwnedRequest{Name: "Bike", Price: "900", Category: "Vehicles", Phone: "1"}),
		"💰 *Price*: ₹900\n📂 *Category*: Vehicles")
}
