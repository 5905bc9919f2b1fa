package service

import "errors"

// 服务层哨兵错误，handler 按 errors.Is 映射为响应码与文案键。
var (
	ErrNotFound = errors.New("记录不存在")

	// 认证
	ErrInvalidCredentials   = errors.New("用户名或密码错误")
	ErrAccountDisabled      = errors.New("账号已被禁用")
	ErrEmailExists          = errors.New("邮箱已被注册")
	ErrOldPasswordIncorrect = errors.New("旧密码不正确")
	ErrInvalidPassword      = errors.New("密码不正确")
	ErrWeakPassword         = errors.New("密码不符合策略要求")

	// 优惠码
	ErrPromoCodeNotFound      = errors.New("优惠码不存在")
	ErrPromoCodeInactive      = errors.New("优惠码未启用")
	ErrPromoCodeExpired       = errors.New("优惠码已过期")
	ErrPromoCodeUsageLimit    = errors.New("优惠码已达使用上限")
	ErrPromoCodeMinOrder      = errors.New("订单金额未达到优惠码使用门槛")
	ErrPromoCodeExists        = errors.New("优惠码已存在")
	ErrPromoCodeValueInvalid  = errors.New("优惠码折扣值无效")

	// 套餐
	ErrPlanNotFound    = errors.New("订阅套餐不存在")
	ErrPlanUnavailable = errors.New("订阅套餐暂不可用")
	ErrPlanInvalid     = errors.New("订阅套餐参数无效")

	// 达人与佣金
	ErrInfluencerNotFound       = errors.New("达人不存在")
	ErrInfluencerExists         = errors.New("该用户已是达人")
	ErrInfluencerInactive       = errors.New("达人账号未激活")
	ErrInfluencerStatusInvalid  = errors.New("达人状态无效")
	ErrCommissionNotFound       = errors.New("佣金记录不存在")
	ErrCommissionExists         = errors.New("该购买记录已计提佣金")
	ErrInvalidStateTransition   = errors.New("状态流转不合法")
	ErrCommissionRateInvalid    = errors.New("佣金比例无效")

	// 提现
	ErrWithdrawalNotFound     = errors.New("提现申请不存在")
	ErrWithdrawalProcessed    = errors.New("提现申请已处理")
	ErrWithdrawalBelowMinimum = errors.New("提现金额低于最低限额")
	ErrInsufficientBalance    = errors.New("可提现余额不足")
	ErrWithdrawalPending      = errors.New("已有待处理的提现申请")
	ErrWithdrawalInvalid      = errors.New("提现参数无效")

	// 购买记录
	ErrPurchaseNotFound      = errors.New("购买记录不存在")
	ErrPurchaseStatusInvalid = errors.New("购买记录状态不合法")

	// 仪表盘
	ErrDashboardRangeInvalid = errors.New("统计时间范围不合法")

	// 邮件
	ErrTemplateNotFound   = errors.New("邮件模板不存在")
	ErrTemplateExists     = errors.New("该类型的邮件模板已存在")
	ErrTemplateInvalid    = errors.New("邮件模板参数无效")
	ErrEmailNotConfigured = errors.New("邮件服务未配置")
	ErrSMTPConfigInvalid  = errors.New("SMTP 配置无效")

	// 配置
	ErrConfigInvalid       = errors.New("配置值无效")
	ErrStripeConfigInvalid = errors.New("Stripe 配置无效")

	// 支付
	ErrPaymentNotConfigured = errors.New("支付渠道未配置")
	ErrSignatureInvalid     = errors.New("签名校验失败")

	// 用户
	ErrUserNotFound = errors.New("用户不存在")
	ErrUserDisabled = errors.New("账号已被禁用")
	ErrInvalidEmail = errors.New("邮箱格式无效")
)
