package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// PaymentOrder 网关侧订单对象，ID 与本地订单 ID 无关
type PaymentOrder struct {
	ID       string
	Amount   int64 // 最小货币单位（paise）
	Currency string
}

type Client interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type Razorpay struct {
	client  *razorpay.Client
	secret  []byte
	timeout time.Duration
	log     *zap.Logger
}

func NewRazorpay(keyID, keySecret string, timeout time.Duration, l *zap.Logger) *Razorpay {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Razorpay{
		client:  razorpay.NewClient(keyID, keySecret),
		secret:  []byte(keySecret),
		timeout: timeout,
		log:     l,
	}
}

// CreateOrder 同步创建网关订单。每次尝试带超时，瞬断重试一次，
// 仍失败交给调用方按网关不可用处理。
func (g *Razorpay) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*PaymentOrder, error) {
	var out *PaymentOrder
	op := func() error {
		po, err := g.createOnce(ctx, amount, currency, receipt)
		if err != nil {
			g.log.Warn("razorpay order create attempt failed", zap.Error(err))
			return err
		}
		out = po
		return nil
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 1),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Razorpay) createOnce(ctx context.Context, amount int64, currency, receipt string) (*PaymentOrder, error) {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	ch := make(chan result, 1)
	// SDK 不收 context，放到 goroutine 里配合 select 实现截止时间
	go func() {
		body, err := g.client.Order.Create(data, nil)
		ch <- result{body: body, err: err}
	}()

	select {
	case <-cctx.Done():
		return nil, cctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		id, _ := r.body["id"].(string)
		if id == "" {
			return nil, errors.New("gateway response missing order id")
		}
		return &PaymentOrder{ID: id, Amount: amount, Currency: currency}, nil
	}
}

// VerifySignature 按 Razorpay 文档校验回执：
// HMAC-SHA256(order_id + "|" + payment_id, key_secret) 的十六进制与签名比对。
// 这是支付结果唯一的信任来源，请求体里的其它字段一概不信。
func (g *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
