package notifications

import (
	"bytes"
	"html/template"
	"time"
)

// ContactLead is the subset of a contact submission carried into the
// notification email. Kept local so the contacts package depends on
// notifications, not the other way around.
type ContactLead struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	Message   string
	CreatedAt time.Time
}

const contactLeadTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New contact request</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Company:</strong> {{.Company}}</p>
  <p><strong>Received:</strong> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
</body>
</html>`

var contactLeadTmpl = template.Must(template.New("contact_lead").Parse(contactLeadTemplate))

func buildContactLeadHTML(lead ContactLead) (string, error) {
	var buf bytes.Buffer
	if err := contactLeadTmpl.Execute(&buf, lead); err != nil {
		return "", err
	}
	return buf.String(), nil
}
