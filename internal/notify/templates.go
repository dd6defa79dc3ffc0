package notify

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-bakery-reserve.git/internal/reservations"
)

func itemLines(items []reservations.Item) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "・%s × %d（¥%d）\n", it.ProductName, it.Quantity, it.Price*it.Quantity)
	}
	return b.String()
}

func confirmationBody(shopName string, res reservations.Reservation, items []reservations.Item) string {
	return fmt.Sprintf(`%s様

ご予約ありがとうございます。以下の内容で承りました。

予約番号: %s
予約タイプ: %s
受取日: %s
受取時間: %s

ご注文内容:
%s
合計金額: ¥%d

%s`,
		res.Name, res.ID, res.Type, res.Date, res.Time,
		itemLines(items), res.TotalPrice, shopName)
}

func shopBody(res reservations.Reservation, items []reservations.Item) string {
	return fmt.Sprintf(`新しい予約が入りました。

予約番号: %s
予約タイプ: %s
受取日: %s / %s
お客様: %s（%s / %s）

内容:
%s合計: ¥%d
備考: %s`,
		res.ID, res.Type, res.Date, res.Time,
		res.Name, res.Phone, res.Email,
		itemLines(items), res.TotalPrice, res.Comments)
}

func cancellationBody(shopName string, res reservations.Reservation, reason string) string {
	if reason == "" {
		reason = "店舗都合"
	}
	return fmt.Sprintf(`%s様

誠に申し訳ございません。下記のご予約はキャンセルとなりました。

予約番号: %s
受取日: %s / %s
理由: %s

ご不明な点は店舗までお問い合わせください。

%s`,
		res.Name, res.ID, res.Date, res.Time, reason, shopName)
}
