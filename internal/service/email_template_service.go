package service

import (
	"strings"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"
)

// EmailTemplateService 邮件模板管理服务
type EmailTemplateService struct {
	repo repository.EmailTemplateRepository
}

// NewEmailTemplateService 创建邮件模板服务
func NewEmailTemplateService(repo repository.EmailTemplateRepository) *EmailTemplateService {
	return &EmailTemplateService{repo: repo}
}

// CreateEmailTemplateInput 创建邮件模板输入
type CreateEmailTemplateInput struct {
	Type      string
	Name      string
	Subject   string
	HTMLBody  string
	TextBody  string
	Variables []string
	Status    string
}

// UpdateEmailTemplateInput 更新邮件模板输入（nil 字段不更新）
type UpdateEmailTemplateInput struct {
	Name      *string
	Subject   *string
	HTMLBody  *string
	TextBody  *string
	Variables []string
	Status    *string
}

// RenderedEmail 渲染后的邮件内容
type RenderedEmail struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// CreateTemplate 创建邮件模板（每种类型唯一）
func (s *EmailTemplateService) CreateTemplate(input CreateEmailTemplateInput) (*models.EmailTemplate, error) {
	templateType := strings.TrimSpace(input.Type)
	if !isEmailTemplateTypeSupported(templateType) {
		return nil, ErrTemplateInvalid
	}
	name := strings.TrimSpace(input.Name)
	subject := strings.TrimSpace(input.Subject)
	if name == "" || subject == "" {
		return nil, ErrTemplateInvalid
	}
	if strings.TrimSpace(input.HTMLBody) == "" && strings.TrimSpace(input.TextBody) == "" {
		return nil, ErrTemplateInvalid
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.EmailTemplateStatusActive
	}
	if !isEmailTemplateStatusSupported(status) {
		return nil, ErrTemplateInvalid
	}

	existing, err := s.repo.GetByType(templateType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTemplateExists
	}

	template := &models.EmailTemplate{
		Type:      templateType,
		Name:      name,
		Subject:   subject,
		HTMLBody:  input.HTMLBody,
		TextBody:  input.TextBody,
		Variables: normalizeTemplateVariables(input.Variables),
		Status:    status,
	}
	if err := s.repo.Create(template); err != nil {
		return nil, err
	}
	return s.repo.GetByID(template.ID)
}

// UpdateTemplate 更新邮件模板（类型不可变更）
func (s *EmailTemplateService) UpdateTemplate(id uint, input UpdateEmailTemplateInput) (*models.EmailTemplate, error) {
	template, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTemplateInvalid
		}
		template.Name = name
	}
	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, ErrTemplateInvalid
		}
		template.Subject = subject
	}
	if input.HTMLBody != nil {
		template.HTMLBody = *input.HTMLBody
	}
	if input.TextBody != nil {
		template.TextBody = *input.TextBody
	}
	if input.Variables != nil {
		template.Variables = normalizeTemplateVariables(input.Variables)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !isEmailTemplateStatusSupported(status) {
			return nil, ErrTemplateInvalid
		}
		template.Status = status
	}
	if strings.TrimSpace(template.HTMLBody) == "" && strings.TrimSpace(template.TextBody) == "" {
		return nil, ErrTemplateInvalid
	}

	if err := s.repo.Update(template); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// DeleteTemplate 删除邮件模板（软删除）
func (s *EmailTemplateService) DeleteTemplate(id uint) error {
	template, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if template == nil {
		return ErrTemplateNotFound
	}
	return s.repo.Delete(id)
}

// GetTemplate 查询邮件模板详情
func (s *EmailTemplateService) GetTemplate(id uint) (*models.EmailTemplate, error) {
	template, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

// ListTemplates 查询邮件模板列表
func (s *EmailTemplateService) ListTemplates(filter repository.EmailTemplateListFilter) ([]models.EmailTemplate, int64, error) {
	return s.repo.List(filter)
}

// RenderByType 按类型渲染启用中的模板，{{变量}} 逐一替换
func (s *EmailTemplateService) RenderByType(templateType string, variables map[string]string) (*RenderedEmail, error) {
	template, err := s.repo.GetByType(strings.TrimSpace(templateType))
	if err != nil {
		return nil, err
	}
	if template == nil || template.Status != constants.EmailTemplateStatusActive {
		return nil, ErrTemplateNotFound
	}

	return &RenderedEmail{
		Subject:  renderTemplateText(template.Subject, variables),
		HTMLBody: renderTemplateText(template.HTMLBody, variables),
		TextBody: renderTemplateText(template.TextBody, variables),
	}, nil
}

// RenderTemplate 按 ID 渲染模板，用于后台预览（不要求模板处于启用状态）
func (s *EmailTemplateService) RenderTemplate(id uint, variables map[string]string) (*RenderedEmail, error) {
	template, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	return &RenderedEmail{
		Subject:  renderTemplateText(template.Subject, variables),
		HTMLBody: renderTemplateText(template.HTMLBody, variables),
		TextBody: renderTemplateText(template.TextBody, variables),
	}, nil
}

func renderTemplateText(text string, variables map[string]string) string {
	if text == "" || len(variables) == 0 {
		return text
	}
	pairs := make([]string, 0, len(variables)*2)
	for key, value := range variables {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

func normalizeTemplateVariables(variables []string) models.StringArray {
	result := make(models.StringArray, 0, len(variables))
	seen := make(map[string]struct{}, len(variables))
	for _, variable := range variables {
		name := strings.TrimSpace(variable)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

func isEmailTemplateTypeSupported(templateType string) bool {
	switch templateType {
	case constants.EmailTemplateTypeWelcome,
		constants.EmailTemplateTypePasswordReset,
		constants.EmailTemplateTypePaymentSuccess,
		constants.EmailTemplateTypePaymentFailed,
		constants.EmailTemplateTypeSubscriptionConfirm,
		constants.EmailTemplateTypeSubscriptionCanceled,
		constants.EmailTemplateTypeInfluencerInvitation,
		constants.EmailTemplateTypeCommissionEarned,
		constants.EmailTemplateTypeWithdrawalProcessed,
		constants.EmailTemplateTypeCustom:
		return true
	default:
		return false
	}
}

func isEmailTemplateStatusSupported(status string) bool {
	switch status {
	case constants.EmailTemplateStatusActive,
		constants.EmailTemplateStatusInactive,
		constants.EmailTemplateStatusDraft:
		return true
	default:
		return false
	}
}
