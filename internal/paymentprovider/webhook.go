package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Ошибки разбора webhook-событий.
var (
	// ErrInvalidSignature подпись не совпала: полезная нагрузка не заслуживает
	// доверия, запрос отклоняется без изменения состояния.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrUnknownEvent тип события системе не известен. Такие события
	// подтверждаются без обработки, чтобы провайдер их не переотправлял.
	ErrUnknownEvent = errors.New("unknown event type")
)

// envelope внешняя оболочка webhook-события провайдера.
type envelope struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// VerifySignature проверяет подпись HMAC-SHA256 (base64) над сырым телом запроса.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// VerifyAndParseEvent проверяет подпись webhook-события и разбирает его
// в размеченное объединение Event. Проверка подписи идет первой: до нее
// тело не разбирается и никакой обработки не происходит.
func VerifyAndParseEvent(body []byte, signature, secret string) (*Event, error) {
	const op = "paymentprovider.VerifyAndParseEvent"

	if signature == "" || !VerifySignature(secret, body, signature) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := &Event{Kind: EventKind(env.Type)}
	switch event.Kind {
	case EventCheckoutCompleted:
		var checkout CheckoutSession
		if err := json.Unmarshal(env.Data.Object, &checkout); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.Checkout = &checkout
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub SubscriptionObject
		if err := json.Unmarshal(env.Data.Object, &sub); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.Subscription = &sub
	case EventInvoicePaymentFailed:
		var invoice Invoice
		if err := json.Unmarshal(env.Data.Object, &invoice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		event.Invoice = &invoice
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownEvent, env.Type)
	}
	return event, nil
}
