package i18n

// catalog 文案表：locale -> key -> 文案
var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.invalid_params":           "invalid request parameters",
		"error.unauthorized":             "unauthorized",
		"error.forbidden":                "forbidden",
		"error.not_found":                "resource not found",
		"error.internal":                 "internal server error",
		"error.too_many_requests":        "too many requests, please try again later",
		"error.rate_limited":             "too many requests, please retry in %d seconds",
		"error.login_too_many":           "too many login attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":   "rate limiter unavailable",
		"error.auth_header_missing":      "authorization header missing",
		"error.auth_header_invalid":      "authorization header invalid",
		"error.token_invalid":            "invalid or expired token",
		"error.token_revoked":            "token has been revoked",
		"error.jwt_secret_missing":       "jwt secret not configured",
		"error.invalid_credentials":      "invalid username or password",
		"error.account_disabled":         "account is disabled",
		"error.email_exists":             "email already registered",
		"error.password_too_weak":        "password does not meet the policy: %s",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",
		"error.old_password_incorrect":   "old password is incorrect",
		"error.promo_not_found":          "promo code not found",
		"error.promo_expired":            "promo code has expired",
		"error.promo_usage_limit":        "promo code usage limit reached",
		"error.promo_min_order":          "order amount below promo code minimum",
		"error.promo_code_exists":        "promo code already exists",
		"error.plan_not_found":           "subscription plan not found",
		"error.plan_unavailable":         "subscription plan is not available",
		"error.user_not_found":           "user not found",
		"error.influencer_not_found":     "influencer not found",
		"error.influencer_exists":        "user is already an influencer",
		"error.influencer_inactive":      "influencer account is not active",
		"error.influencer_status_invalid": "invalid influencer status",
		"error.commission_not_found":     "commission not found",
		"error.invalid_state_transition": "invalid status transition",
		"error.withdrawal_not_found":     "withdrawal request not found",
		"error.withdrawal_processed":     "withdrawal request already processed",
		"error.withdrawal_below_min":     "withdrawal amount below minimum",
		"error.insufficient_balance":     "insufficient available balance",
		"error.withdrawal_pending":       "a pending withdrawal request already exists",
		"error.purchase_not_found":       "purchase record not found",
		"error.purchase_status_invalid":  "invalid purchase status",
		"error.dashboard_range_invalid":  "invalid statistics time range",
		"error.template_not_found":       "email template not found",
		"error.template_exists":          "email template type already exists",
		"error.setting_invalid":          "invalid setting value",
		"error.payment_signature":        "invalid webhook signature",
		"error.payment_not_configured":   "payment channel not configured",
		"error.email_not_configured":     "email delivery not configured",
		"error.promo_inactive":           "promo code is not active",
		"error.promo_value_invalid":      "invalid promo code value",
		"error.plan_invalid":             "invalid subscription plan parameters",
		"error.template_invalid":         "invalid email template parameters",
		"error.commission_rate_invalid":  "invalid commission rate",
		"error.withdrawal_invalid":       "invalid withdrawal parameters",
		"error.commission_exists":        "commission already accrued for this purchase",
		"error.email_invalid":            "invalid email address",
		"error.smtp_config_invalid":      "invalid SMTP configuration",
		"error.stripe_config_invalid":    "invalid Stripe configuration",
		"error.admin_id_invalid":         "invalid administrator id",
		"error.admin_id_type_invalid":    "unexpected administrator id type",
		"error.admin_username_exists":    "administrator username already exists",
		"error.admin_username_invalid":   "invalid administrator username",
		"error.admin_delete_self":        "cannot delete your own administrator account",
		"error.admin_delete_protected":   "this administrator account is protected",
		"error.admin_delete_last":        "cannot delete the last administrator account",
		"error.user_id_invalid":          "invalid user id",
		"error.user_id_type_invalid":     "unexpected user id type",
	},
	LocaleZH: {
		"error.invalid_params":           "请求参数无效",
		"error.unauthorized":             "未登录或登录已过期",
		"error.forbidden":                "没有操作权限",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.too_many_requests":        "请求过于频繁，请稍后重试",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.login_too_many":           "登录尝试过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.auth_header_missing":      "缺少认证头",
		"error.auth_header_invalid":      "认证头格式无效",
		"error.token_invalid":            "令牌无效或已过期",
		"error.token_revoked":            "令牌已失效",
		"error.jwt_secret_missing":       "JWT 密钥未配置",
		"error.invalid_credentials":      "用户名或密码错误",
		"error.account_disabled":         "账号已被禁用",
		"error.email_exists":             "邮箱已被注册",
		"error.password_too_weak":        "密码不符合策略要求：%s",
		"error.password_min_length":      "密码长度至少为 %d 位",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",
		"error.old_password_incorrect":   "旧密码不正确",
		"error.promo_not_found":          "优惠码不存在",
		"error.promo_expired":            "优惠码已过期",
		"error.promo_usage_limit":        "优惠码已达使用上限",
		"error.promo_min_order":          "订单金额未达到优惠码使用门槛",
		"error.promo_code_exists":        "优惠码已存在",
		"error.plan_not_found":           "订阅套餐不存在",
		"error.plan_unavailable":         "订阅套餐暂不可用",
		"error.user_not_found":           "用户不存在",
		"error.influencer_not_found":     "达人不存在",
		"error.influencer_exists":        "该用户已是达人",
		"error.influencer_inactive":      "达人账号未激活",
		"error.influencer_status_invalid": "达人状态无效",
		"error.commission_not_found":     "佣金记录不存在",
		"error.invalid_state_transition": "状态流转不合法",
		"error.withdrawal_not_found":     "提现申请不存在",
		"error.withdrawal_processed":     "提现申请已处理",
		"error.withdrawal_below_min":     "提现金额低于最低限额",
		"error.insufficient_balance":     "可提现余额不足",
		"error.withdrawal_pending":       "已有待处理的提现申请",
		"error.purchase_not_found":       "购买记录不存在",
		"error.purchase_status_invalid":  "购买记录状态不合法",
		"error.dashboard_range_invalid":  "统计时间范围不合法",
		"error.template_not_found":       "邮件模板不存在",
		"error.template_exists":          "该类型的邮件模板已存在",
		"error.setting_invalid":          "配置值无效",
		"error.payment_signature":        "Webhook 签名校验失败",
		"error.payment_not_configured":   "支付渠道未配置",
		"error.email_not_configured":     "邮件服务未配置",
		"error.promo_inactive":           "优惠码未启用",
		"error.promo_value_invalid":      "优惠码折扣值无效",
		"error.plan_invalid":             "订阅套餐参数无效",
		"error.template_invalid":         "邮件模板参数无效",
		"error.commission_rate_invalid":  "佣金比例无效",
		"error.withdrawal_invalid":       "提现参数无效",
		"error.commission_exists":        "该购买记录已计提佣金",
		"error.email_invalid":            "邮箱格式无效",
		"error.smtp_config_invalid":      "SMTP 配置无效",
		"error.stripe_config_invalid":    "Stripe 配置无效",
		"error.admin_id_invalid":         "管理员 ID 无效",
		"error.admin_id_type_invalid":    "管理员 ID 类型异常",
		"error.admin_username_exists":    "管理员用户名已存在",
		"error.admin_username_invalid":   "管理员用户名无效",
		"error.admin_delete_self":        "不能删除当前登录的管理员账号",
		"error.admin_delete_protected":   "该管理员账号受保护，不能删除",
		"error.admin_delete_last":        "不能删除最后一个管理员账号",
		"error.user_id_invalid":          "用户 ID 无效",
		"error.user_id_type_invalid":     "用户 ID 类型异常",
	},
}
