package services

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"edeng/internal/domain"
)

var orderTmpl = template.Must(template.New("order").Parse(`
<h2>New order received at Edeng Jewellry</h2>
<p><b>Customer:</b> {{.Contact.Name}}</p>
<p><b>Email:</b> {{.Contact.Email}}</p>
<p><b>Phone:</b> {{.Contact.Phone}}</p>
<p><b>Address:</b> {{.Contact.Address}}</p>
<p><b>Total:</b> ₪{{printf "%.2f" .Amount}}</p>
<h3>Items</h3>
<ul>
{{range .Items}}<li>{{.Label}} (x{{.Quantity}}) — ₪{{printf "%.2f" .Price}}</li>
{{end}}</ul>
`))

type MailerService struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailerService(host string, port int, user, pass string) *MailerService {
	return &MailerService{dialer: gomail.NewDialer(host, port, user, pass), from: user}
}

// SendOrderEmail delivers the order summary to the shop admin. Callers
// log failures; a failed email never affects a payment result already
// returned to the buyer.
func (s *MailerService) SendOrderEmail(to string, contact domain.Contact, items []domain.CartItem, amount float64) error {
	var body bytes.Buffer
	err := orderTmpl.Execute(&body, struct {
		Contact domain.Contact
		Items   []domain.CartItem
		Amount  float64
	}{contact, items, amount})
	if err != nil {
		return fmt.Errorf("render order mail: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, "Edeng Jewellry Store")
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New order received")
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send order mail: %w", err)
	}
	return nil
}
