// Package leads turns lead forms into prefilled WhatsApp messages for a
// screen's admin.
//
// Nothing is written to the catalog: a lead is a deep link plus an event on
// the leads topic.
package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"catalog-backend/internal/dedupe"
	"catalog-backend/internal/deeplink"
	"catalog-backend/internal/model"
)

var (
	// ErrNoAdminNumber means the screen has no admin WhatsApp number yet.
	ErrNoAdminNumber = errors.New("admin WhatsApp number not configured")
	// ErrDuplicate means the same lead was submitted moments ago.
	ErrDuplicate = errors.New("duplicate submission")
	// ErrUnknownKind is returned for lead kinds without a form.
	ErrUnknownKind = errors.New("unknown lead kind")
)

// MissingFieldsError lists required form fields left empty. Nothing is sent
// when it is returned.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "please fill all required fields: " + strings.Join(e.Fields, ", ")
}

// Publisher records submitted leads.
type Publisher interface {
	PublishLead(ctx context.Context, evt model.LeadSubmitted) error
}

// Deduper reports whether a fingerprint was seen recently.
type Deduper interface {
	Seen(ctx context.Context, key string) bool
}

// Lead is an accepted submission.
type Lead struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Service validates and renders lead forms.
type Service struct {
	// go-playground/validator/v10: struct validator for the form tags.
	validate  *validator.Validate
	dedupe    Deduper
	publisher Publisher
	logger    *zap.Logger
}

// NewService creates a lead service. dedupe and publisher may be nil.
func NewService(d Deduper, p Publisher, logger *zap.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Service{validate: v, dedupe: d, publisher: p, logger: logger}
}

// Decode parses a JSON form body for kind.
func Decode(kind string, data []byte) (any, error) {
	var form any
	switch kind {
	case model.LeadService:
		form = &model.ServiceRequest{}
	case model.LeadPreOwned:
		form = &model.PreOwnedRequest{}
	case model.LeadManufacturer:
		form = &model.ManufacturerRequest{}
	case model.LeadEvent:
		form = &model.EventSubmission{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := json.Unmarshal(data, form); err != nil {
		return nil, fmt.Errorf("leads: decode %s form: %w", kind, err)
	}
	return form, nil
}

// DecodeFields builds a form for kind from flat key/value pairs, as the CLI
// collects them.
func DecodeFields(kind string, fields map[string]string) (any, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return Decode(kind, data)
}

// Validate returns a *MissingFieldsError naming every empty required field,
// in form order.
func (s *Service) Validate(form any) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("leads: validate: %w", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &MissingFieldsError{Fields: missing}
}

// Submit validates form, builds the admin deep link and records the lead.
func (s *Service) Submit(ctx context.Context, screen, admin string, form any) (*Lead, error) {
	if err := s.Validate(form); err != nil {
		return nil, err
	}
	if admin == "" {
		return nil, ErrNoAdminNumber
	}

	kind, message, fields, err := render(form)
	if err != nil {
		return nil, err
	}
	lead := &Lead{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		URL:     deeplink.AdminMessageURL(admin, message),
	}

	if s.dedupe != nil && s.dedupe.Seen(ctx, dedupe.Fingerprint(screen, lead.URL)) {
		return nil, ErrDuplicate
	}

	if s.publisher != nil {
		evt := model.LeadSubmitted{
			ID:        lead.ID,
			Screen:    screen,
			Kind:      kind,
			Fields:    fields,
			URL:       lead.URL,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}
		// Fire-and-forget: the deep link is what matters to the caller.
		if err := s.publisher.PublishLead(ctx, evt); err != nil {
			s.logger.Warn("leads: publish failed", zap.String("screen", screen), zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}

	s.logger.Info("leads: accepted", zap.String("screen", screen), zap.String("kind", kind), zap.String("lead_id", lead.ID))
	return lead, nil
}

func render(form any) (kind, message string, fields map[string]string, err error) {
	switch f := form.(type) {
	case *model.ServiceRequest:
		return model.LeadService, ServiceMessage(*f), map[string]string{
			"name": f.Name, "phone": f.Phone, "description": f.Description,
		}, nil
	case *model.PreOwnedRequest:
		return model.LeadPreOwned, PreOwnedMessage(*f), map[string]string{
			"name": f.Name, "price": f.Price, "category": f.Category, "phone": f.Phone, "description": f.Description,
		}, nil
	case *model.ManufacturerRequest:
		return model.LeadManufacturer, ManufacturerMessage(*f), map[string]string{
			"name": f.Name, "product_type": f.ProductType, "price": f.Price, "note": f.Note,
		}, nil
	case *model.EventSubmission:
		return model.LeadEvent, EventMessage(*f), map[string]string{
			"title": f.Title, "date": f.Date, "location": f.Location, "description": f.Description, "image": f.Image,
		}, nil
	default:
		return "", "", nil, fmt.Errorf("%w: %T", ErrUnknownKind, form)
	}
}
