package email

import (
	"strconv"

	"github.com/deppfellow/odoo-bridge/internal/model"
)

// SendNewContactEmail tells the site owner that a partner was created.
func (c *Client) SendNewContactEmail(partnerID int64, country string, p model.Partner) error {
	data := map[string]string{
		"PartnerID": strconv.FormatInt(partnerID, 10),
		"Name":      p.Name,
		"Phone":     p.Phone,
		"Email":     p.Email.String(),
		"Country":   country,
		"Comment":   p.Comment.String(),
	}

	return c.SendEmail(
		c.to,
		"Nouveau contact : "+p.Name,
		TemplateNewContact,
		data,
	)
}
