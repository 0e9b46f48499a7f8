package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"park-price-tiers/internal/alerting"
	"park-price-tiers/internal/tiers"
)

// SimulateAlert 构造一次虚拟价格波动并推送告警, 用于验证通知链路.
func (a *App) SimulateAlert(ctx context.Context, previous, current decimal.Decimal) error {
	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("alerting.telegram 未启用, 无法模拟告警")
	}

	if previous.IsZero() {
		return errors.New("previous price must be non-zero")
	}

	changePct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	threshold := decimal.NewFromFloat(a.Config.Alerting.ThresholdPct)

	product := "simulated"
	if len(a.Config.Products) > 0 {
		product = a.Config.Products[0]
	}

	note := alerting.Notification{
		ProductType:   product,
		Date:          time.Now().UTC(),
		Kind:          tiers.AlertPriceSpike,
		Message:       "Simulated price change of " + changePct.StringFixed(1) + "%",
		Price:         &current,
		ThresholdPct:  threshold,
		AdditionalMsg: "(simulation; not a real price movement)",
	}

	if err := notifier.Notify(ctx, note); err != nil {
		return err
	}

	a.Logger.Info().
		Str("product", product).
		Str("change_pct", changePct.StringFixed(2)).
		Msg("模拟告警已发送")
	return nil
}
