package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"gorm.io/gorm"

	"github.com/yoonly93/posikiCS/shared/config"
	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/translate"
)

// Mailer sends contact notification emails through SES. The recipient is
// the owning tenant's account email, falling back to MAILER_DEFAULT_TO.
type Mailer struct {
	ses       *ses.SES
	db        *gorm.DB
	from      string
	defaultTo string
}

// NewMailer builds the SES client from the ambient AWS credentials chain.
func NewMailer(db *gorm.DB) (*Mailer, error) {
	region := config.GetEnv("AWS_REGION", "ap-northeast-2")
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	from := config.GetEnv("MAILER_FROM", "")
	if from == "" {
		return nil, fmt.Errorf("MAILER_FROM must be set to a verified SES sender")
	}

	return &Mailer{
		ses:       ses.New(sess),
		db:        db,
		from:      from,
		defaultTo: config.GetEnv("MAILER_DEFAULT_TO", ""),
	}, nil
}

// SendContactNotification delivers one notification email.
func (m *Mailer) SendContactNotification(event *models.ContactNotificationEvent) error {
	to := m.recipientFor(event.TenantUID)
	if to == "" {
		return fmt.Errorf("no recipient for tenant %s", event.TenantUID)
	}

	subject := fmt.Sprintf("[문의] %s - %s", event.TypeKo, event.AppName)
	body := m.buildBody(event)

	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(to)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
		ReplyToAddresses: []*string{aws.String(event.Email)},
	}

	if _, err := m.ses.SendEmail(input); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

// recipientFor resolves the tenant's account email.
func (m *Mailer) recipientFor(tenantUID string) string {
	var tenant models.Tenant
	err := m.db.Select("email").Where("uid = ?", tenantUID).First(&tenant).Error
	if err != nil || tenant.Email == "" {
		return m.defaultTo
	}
	return tenant.Email
}

// buildBody renders the plain-text notification. The Korean translation is
// shown only when it differs from the original; the sentinel marks a
// failed translation and is shown as-is.
func (m *Mailer) buildBody(event *models.ContactNotificationEvent) string {
	body := fmt.Sprintf(`새 문의가 접수되었습니다.

앱: %s
유형: %s
이메일: %s
언어: %s

--- 문의 내용 ---
%s
`, event.AppName, event.TypeKo, event.Email, event.Language, event.Message)

	if event.MessageKo != "" && event.MessageKo != event.Message {
		label := "--- 한국어 번역 ---"
		if event.MessageKo == translate.FailureSentinel {
			label = "--- 한국어 번역 (실패) ---"
		}
		body += fmt.Sprintf("\n%s\n%s\n", label, event.MessageKo)
	}

	if event.Source != "" {
		body += fmt.Sprintf("\n출처: %s\n", event.Source)
	}
	body += fmt.Sprintf("\n접수 시각: %s\n", event.Timestamp.Format("2006-01-02 15:04:05 MST"))

	return body
}
