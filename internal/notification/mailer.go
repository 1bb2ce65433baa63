package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"venuebooking/internal/domain"
)

// ContactDirectory resolves the address of a user.
type ContactDirectory interface {
	Contact(ctx context.Context, userID int64) (domain.Contact, error)
}

// EmailJob is the message an external mail service consumes.
type EmailJob struct {
	ID            string    `json:"id"`
	Template      string    `json:"template"`
	To            string    `json:"to"`
	ToName        string    `json:"to_name"`
	Subject       string    `json:"subject"`
	HTML          string    `json:"html"`
	ReservationID int64     `json:"reservation_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Mailer turns reservation events into email jobs for the requester.
type Mailer struct {
	publisher Publisher
	queue     string
	contacts  ContactDirectory
	baseURL   string
	templates emailTemplates
}

func NewMailer(publisher Publisher, queue string, contacts ContactDirectory, baseURL string) (*Mailer, error) {
	tpls, err := parseEmailTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Mailer{
		publisher: publisher,
		queue:     queue,
		contacts:  contacts,
		baseURL:   baseURL,
		templates: tpls,
	}, nil
}

func (m *Mailer) Name() string { return "mailer" }

func (m *Mailer) Handle(ctx context.Context, ev Event) error {
	job, err := m.Build(ctx, ev)
	if err != nil || job == nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}
	return m.publisher.Publish(ctx, m.queue, body)
}

// Build renders the email for ev, or returns nil for events that send none.
func (m *Mailer) Build(ctx context.Context, ev Event) (*EmailJob, error) {
	var name string
	switch ev.Kind {
	case EventReservationCreated:
		name = templateRequestCreated
	case EventReservationStatusChanged:
		name = templateRequestUpdated
	default:
		return nil, nil
	}

	res := ev.Reservation
	contact, err := m.contacts.Contact(ctx, res.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("requester contact: %w", err)
	}
	if contact.Email == "" {
		return nil, nil
	}

	data := emailData{
		Name:   contact.Name,
		Venue:  ev.VenueName,
		Date:   res.Date.String(),
		Start:  res.Start.String(),
		End:    res.End.String(),
		Code:   res.Code,
		Status: res.Status,
		Notes:  ev.AdminNotes,
		Link:   m.baseURL + "/solicitudes/" + strconv.FormatInt(res.ID, 10),
	}
	html, err := m.templates.render(name, data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return &EmailJob{
		ID:            uuid.NewString(),
		Template:      name,
		To:            contact.Email,
		ToName:        contact.Name,
		Subject:       emailSubject(name, data),
		HTML:          html,
		ReservationID: res.ID,
		CreatedAt:     at.UTC(),
	}, nil
}
