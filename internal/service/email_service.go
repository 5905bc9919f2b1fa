package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
)

// EmailService 邮件发送服务（配置来自 settings 表，实时生效）
type EmailService struct {
	settingService  *SettingService
	templateService *EmailTemplateService
}

// NewEmailService 创建邮件服务
func NewEmailService(settingService *SettingService, templateService *EmailTemplateService) *EmailService {
	return &EmailService{
		settingService:  settingService,
		templateService: templateService,
	}
}

// SendTemplateEmail 按模板类型发送邮件
func (s *EmailService) SendTemplateEmail(toEmail, templateType string, variables map[string]string) error {
	rendered, err := s.templateService.RenderByType(templateType, variables)
	if err != nil {
		return err
	}
	return s.sendEmail(toEmail, rendered.Subject, rendered.HTMLBody, rendered.TextBody)
}

// SendTestEmail 发送 SMTP 配置测试邮件
func (s *EmailService) SendTestEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP configuration test"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "This is a test email. Your SMTP settings are working."
	}
	return s.sendEmail(toEmail, subject, "", body)
}

func (s *EmailService) sendEmail(toEmail, subject, htmlBody, textBody string) error {
	setting, err := s.settingService.GetSMTPSetting()
	if err != nil {
		return err
	}
	if !setting.Enabled {
		return ErrEmailNotConfigured
	}
	if setting.Host == "" || setting.Port == 0 || setting.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(setting.From, setting.FromName)
	msg := buildEmailMessage(from, toEmail, subject, htmlBody, textBody)

	addr := fmt.Sprintf("%s:%d", setting.Host, setting.Port)
	var auth smtp.Auth
	if setting.Username != "" || setting.Password != "" {
		auth = smtp.PlainAuth("", setting.Username, setting.Password, setting.Host)
	}

	if setting.UseSSL {
		return sendMailWithSSL(addr, auth, setting.Host, setting.From, []string{toEmail}, []byte(msg))
	}
	if setting.UseTLS {
		return sendMailWithStartTLS(addr, auth, setting.Host, setting.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, setting.Host, setting.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, htmlBody, textBody string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	if strings.TrimSpace(htmlBody) != "" {
		buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(htmlBody)
		return buf.String()
	}
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(textBody)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
