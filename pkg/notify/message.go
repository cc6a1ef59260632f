package notify

import (
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
	"github.com/doodlesbykumbi/identity-intake/pkg/extract"
	"github.com/doodlesbykumbi/identity-intake/pkg/model"
)

// Subject is the fixed subject line of every notification.
const Subject = "Extrahierte Personalausweisdaten"

// Message is a composed plain-text notification.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Compose builds the notification for rec. Field values are embedded
// verbatim, one labeled line each.
func Compose(cfg config.Mail, rec model.Record) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "%s: %s\n", extract.LabelName, rec.Name)
	fmt.Fprintf(&body, "%s: %s\n", extract.LabelGivenName, rec.GivenName)
	fmt.Fprintf(&body, "%s: %s\n", extract.LabelBirthDate, rec.BirthDate)
	fmt.Fprintf(&body, "%s: %s\n", extract.LabelAddress, rec.Address)
	fmt.Fprintf(&body, "%s: %s", extract.LabelNationalID, rec.NationalID)

	return Message{
		From:    cfg.User,
		To:      cfg.To,
		Subject: Subject,
		Body:    body.String(),
	}
}
