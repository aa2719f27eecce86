package usecase

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"notarycalc/internal/entity"
	"notarycalc/internal/metrics"
)

// Email kinds.
const (
	EmailWelcome       = "welcome"
	EmailResetPassword = "reset_password"
	EmailTrialEnding   = "trial_ending"
)

//go:embed templates/*.html
var emailFS embed.FS

var emailTemplates = template.Must(template.ParseFS(emailFS, "templates/*.html"))

type emailData struct {
	Subject    string
	Name       string
	OfficeName string
	Days       int
	Minutes    int
	ActionURL  string
	ActionText string
}

func renderEmail(kind, to string, d emailData) (entity.EmailMessage, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, kind+".html", d); err != nil {
		return entity.EmailMessage{}, fmt.Errorf("render %s email: %w", kind, err)
	}
	return entity.EmailMessage{To: to, Subject: d.Subject, HTML: buf.String(), Kind: kind}, nil
}

func displayName(p *entity.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func welcomeEmail(p *entity.Profile, trialDays int, baseURL string) (entity.EmailMessage, error) {
	return renderEmail(EmailWelcome, p.Email, emailData{
		Subject:    "ברוכים הבאים ל-NotaryCalc Pro",
		Name:       displayName(p),
		OfficeName: p.OfficeName,
		Days:       trialDays,
		ActionURL:  baseURL + "/dashboard",
		ActionText: "התחל עכשיו",
	})
}

func resetPasswordEmail(p *entity.Profile, link string, ttl time.Duration) (entity.EmailMessage, error) {
	return renderEmail(EmailResetPassword, p.Email, emailData{
		Subject:    "איפוס סיסמה - NotaryCalc Pro",
		Name:       displayName(p),
		Minutes:    int(ttl / time.Minute),
		ActionURL:  link,
		ActionText: "בחר סיסמה חדשה",
	})
}

func trialEndingEmail(p *entity.Profile, daysLeft int, baseURL string) (entity.EmailMessage, error) {
	return renderEmail(EmailTrialEnding, p.Email, emailData{
		Subject:    "תקופת הניסיון מסתיימת בקרוב",
		Name:       displayName(p),
		Days:       daysLeft,
		ActionURL:  baseURL + "/dashboard",
		ActionText: "שדרג עכשיו",
	})
}

// deliver sends a rendered message and records the outcome
func deliver(ctx context.Context, m Mailer, msg entity.EmailMessage) error {
	if err := m.Send(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues(msg.Kind, "error").Inc()
		return fmt.Errorf("send %s email: %w", msg.Kind, err)
	}
	metrics.EmailsSent.WithLabelValues(msg.Kind, "ok").Inc()
	return nil
}

// Notifier sends scheduled account emails
type Notifier struct {
	Pr      ProfileRepository
	Mailer  Mailer
	BaseURL string
	log     *slog.Logger
}

// NewNotifier creates a notifier; a nil logger falls back to slog.Default
func NewNotifier(pr ProfileRepository, mailer Mailer, baseURL string, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{Pr: pr, Mailer: mailer, BaseURL: baseURL, log: log}
}

// NotifyTrialsEnding emails every trial account ending within the window once and
// returns the number of emails sent. Failed sends are retried on the next run.
func (n *Notifier) NotifyTrialsEnding(ctx context.Context, now time.Time, within time.Duration) (int, error) {
	if within <= 0 {
		return 0, fmt.Errorf("%w: window must be positive", ErrInvalidPeriod)
	}
	profiles, err := n.Pr.ListTrialsEnding(ctx, now, now.Add(within))
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, p := range profiles {
		msg, err := trialEndingEmail(p, p.TrialDaysLeft(now), n.BaseURL)
		if err != nil {
			return sent, err
		}
		if err := deliver(ctx, n.Mailer, msg); err != nil {
			n.log.Warn("trial notice failed", slog.String("user_id", p.ID.String()), slog.Any("err", err))
			errs = append(errs, err)
			continue
		}
		if err := n.Pr.MarkTrialNoticeSent(ctx, p.ID, now); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
