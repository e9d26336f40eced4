package common

// User-facing result messages. The storefront UI is Chinese; these match
// the strings the views already display, so they must stay byte-identical.
const (
	MsgLoginFailedRetry     = "登录失败，请稍后再试"
	MsgLoginBadCredentials  = "登录失败，请检查用户名和密码"
	MsgAdminBadCredentials  = "管理员登录失败，请检查用户名和密码"
	MsgRegisterFailedRetry  = "注册失败，请稍后再试"
	MsgCartFetchFailed      = "获取购物车失败"
	MsgCartAddFailed        = "添加到购物车失败"
	MsgCartRemoveFailed     = "从购物车移除失败"
	MsgCartUpdateFailed     = "更新购物车失败"
	MsgCartClearFailed      = "清空购物车失败"
	MsgCartSyncFailed       = "同步购物车失败"
	MsgWalletFetchFailed    = "获取余额失败"
	MsgWalletDepositFailed  = "充值失败"
	MsgWalletWithdrawFailed = "提现失败"
	MsgWalletPayFailed      = "支付失败"
	MsgWalletRefundFailed   = "退款失败"
	MsgWalletBatchPayFailed = "批量支付失败"
)
