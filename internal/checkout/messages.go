package checkout

import (
	"errors"

	"github.com/fjod/go_cart/storefront/internal/api"
)

const (
	msgLoadFailed   = "注文情報の読み込みに失敗しました。"
	msgSubmitFailed = "注文の確定に失敗しました。"
	msgTopUpFailed  = "ポイントのチャージに失敗しました。"
	msgUnexpected   = "エラーが発生しました。もう一度お試しください。"
)

var userMessages = []struct {
	err error
	msg string
}{
	{ErrEmptyCart, "カートが空です。"},
	{ErrInvalidCart, "カートの内容が正しくありません。カートをご確認ください。"},
	{ErrCustomerIncomplete, "お客様情報(氏名・電話番号・メールアドレス)をすべて入力してください。"},
	{ErrShippingIncomplete, "配送先住所を選択するか、すべての住所項目を入力してください。"},
	{ErrAddressNotFound, "選択された住所が見つかりません。"},
	{ErrDeliveryNotSelected, "お届け日と時間帯を選択してください。"},
	{ErrPaymentMethodNotSelected, "お支払い方法を選択してください。"},
	{ErrPaymentMethodUnavailable, "選択されたお支払い方法は登録されていません。"},
	{ErrInvalidCardNumber, "カード番号は16桁で入力してください。"},
	{ErrInvalidCardExpiry, "有効期限はMM/YY形式で入力してください。"},
	{ErrCardExpired, "カードの有効期限が切れています。"},
	{ErrInvalidCVV, "セキュリティコードは3桁または4桁で入力してください。"},
	{ErrInsufficientBalance, "選択されたお支払い方法の残高が不足しています。"},
	{ErrTopUpUnavailable, "この条件ではポイントをチャージできません。"},
	{ErrInvalidTopUpAmount, "1円以上をチャージしてください。"},
	{ErrTopUpExceedsBalance, "PayPay残高を超える金額はチャージできません。"},
	{ErrDraftNotFound, "注文情報が見つかりません。もう一度カートからお進みください。"},
	{ErrDraftSubmitted, "この注文はすでに確定しています。"},
	{ErrActionInProgress, "処理中です。しばらくお待ちください。"},
	{ErrIllegalTransition, "この操作は現在のステップでは行えません。"},
	{ErrNotAuthenticated, "ログインしてください。"},
	{ErrLoadFailed, msgLoadFailed},
}

// UserMessage turns err into the single line shown to the shopper. Backend
// messages win over the generic fallbacks for submit and top-up.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	switch {
	case errors.Is(err, ErrSubmitFailed):
		return api.Message(err, msgSubmitFailed)
	case errors.Is(err, ErrTopUpFailed):
		return api.Message(err, msgTopUpFailed)
	}
	return api.Message(err, msgUnexpected)
}
