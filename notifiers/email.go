package notifiers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"sort"
	"strings"

	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/models"
)

//go:embed templates/detection_digest.html
var emailTemplates embed.FS

var digestTemplates = template.Must(template.New("emails").ParseFS(emailTemplates, "templates/*.html"))

const maxDigestItems = 10

type Mailer struct {
	smtpHost string
	smtpPort string
	from     string
	password string
}

func NewMailer(smtpHost, smtpPort, from, password string) *Mailer {
	return &Mailer{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		from:     from,
		password: password,
	}
}

// DetectionDigestEmail renders one email for a batch of stored results.
// Results whose hits cannot be decoded still count towards the total.
func (h *Mailer) DetectionDigestEmail(email string, results []data.DetectionResult) (models.Email, error) {
	if len(results) == 0 {
		return models.Email{}, fmt.Errorf("no results")
	}

	items := make([]models.DigestItem, 0, maxDigestItems)
	categorySet := make(map[string]struct{})
	for _, r := range results {
		var hits []data.DetectedKeyword
		if err := json.Unmarshal(r.DetectedKeywords, &hits); err != nil {
			slog.Warn("digest: undecodable hits", "resultId", r.ID, "error", err)
		}

		keywords := make([]string, 0, len(hits))
		seen := make(map[string]struct{})
		for _, hit := range hits {
			categorySet[hit.Category] = struct{}{}
			if _, ok := seen[hit.Keyword]; ok {
				continue
			}
			seen[hit.Keyword] = struct{}{}
			keywords = append(keywords, hit.Keyword)
		}
		if len(items) >= maxDigestItems {
			continue
		}

		item := models.DigestItem{
			Title:    strings.TrimSpace(r.Title),
			Keywords: keywords,
		}
		if r.URL != nil {
			item.URL = *r.URL
		}
		if len(hits) > 0 {
			item.Context = hits[0].Context
		}
		items = append(items, item)
	}

	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var buf bytes.Buffer
	tmplData := struct {
		Items      []models.DigestItem
		Categories []string
		Total      int
		Remaining  int
	}{
		Items:      items,
		Categories: categories,
		Total:      len(results),
		Remaining:  len(results) - len(items),
	}
	if err := digestTemplates.ExecuteTemplate(&buf, "detection_digest.html", tmplData); err != nil {
		return models.Email{}, fmt.Errorf("render detection digest template: %w", err)
	}

	return models.Email{
		To:      email,
		Subject: fmt.Sprintf("adwatch: %d new detections", len(results)),
		Body:    buf.String(),
	}, nil
}

func (h *Mailer) Send(mail models.Email) error {
	message := fmt.Sprintf(`From: adwatch <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, h.from, mail.To, mail.Subject, mail.Body)

	auth := smtp.PlainAuth("", h.from, h.password, h.smtpHost)
	addr := fmt.Sprintf("%s:%s", h.smtpHost, h.smtpPort)
	err := smtp.SendMail(addr, auth, h.from, []string{mail.To}, []byte(message))
	if err != nil {
		slog.Error("Failed to send email", "error", err)
		return err
	}

	slog.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}
