package notification

import (
	"bytes"
	"html/template"
)

const emailLayout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">{{template "body" .}}<p>Saludos,<br>El equipo del Sistema de Reservas</p></div>`

var emailBodies = map[string]string{
	templateRequestCreated: `<h2>Solicitud de reserva creada</h2>
<p>Hola {{.Name}},</p>
<p>Tu solicitud de reserva para el escenario <strong>{{.Venue}}</strong> el día <strong>{{.Date}}</strong> de {{.Start}} a {{.End}} ha sido creada exitosamente.</p>
<p>Código de reserva: <strong>{{.Code}}</strong></p>
<p>Te notificaremos cuando tu solicitud sea revisada.</p>
<p><a href="{{.Link}}">Ver solicitud</a></p>`,
	templateRequestUpdated: `<h2>Solicitud de reserva {{.Status}}</h2>
<p>Hola {{.Name}},</p>
<p>Tu solicitud de reserva para el escenario <strong>{{.Venue}}</strong> el día <strong>{{.Date}}</strong> de {{.Start}} a {{.End}} ha sido <strong>{{.Status}}</strong>.</p>
{{if .Notes}}<p>Notas: {{.Notes}}</p>{{end}}
<p><a href="{{.Link}}">Ver solicitud</a></p>`,
}

const (
	templateRequestCreated = "request_created"
	templateRequestUpdated = "request_updated"
)

type emailData struct {
	Name   string
	Venue  string
	Date   string
	Start  string
	End    string
	Code   string
	Status string
	Notes  string
	Link   string
}

type emailTemplates map[string]*template.Template

func parseEmailTemplates() (emailTemplates, error) {
	out := make(emailTemplates, len(emailBodies))
	for name, body := range emailBodies {
		t, err := template.New(name).Parse(emailLayout)
		if err != nil {
			return nil, err
		}
		if _, err := t.New("body").Parse(body); err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

func (t emailTemplates) render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t[name].Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func emailSubject(name string, data emailData) string {
	if name == templateRequestCreated {
		return "Solicitud de reserva creada"
	}
	return "Solicitud de reserva " + data.Status
}
