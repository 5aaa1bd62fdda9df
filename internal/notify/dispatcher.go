package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Result — итог одной попытки отправки.
type Result struct {
	ProviderSID string
	Err         error
}

// Dispatcher отправляет посетителю SMS. Повторов при неудаче нет.
type Dispatcher interface {
	Send(phoneNumber, message string) Result
}

// Active — диспетчер, которым пользуется приложение. В тестах подменяется
// заглушкой. До вызова Init стоит отключённый шлюз.
var Active Dispatcher = &SMSGateway{}

// Init настраивает диспетчер из переменных окружения. Вызывается из main
// после godotenv.Load.
func Init() {
	Active = NewSMSGateway()
}

// SMSGateway шлёт сообщения через HTTP API SMS-шлюза.
type SMSGateway struct {
	apiURL string
	apiKey string
	sender string
	client *http.Client
}

func NewSMSGateway() *SMSGateway {
	return &SMSGateway{
		apiURL: os.Getenv("SMS_API_URL"),
		apiKey: os.Getenv("SMS_API_KEY"),
		sender: os.Getenv("SMS_SENDER"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
}

func (g *SMSGateway) Send(phoneNumber, message string) Result {
	if g.apiURL == "" {
		// Шлюз не настроен — фиксируем неудачу, но не роняем вызов.
		return Result{Err: errors.New("SMS-шлюз не настроен (SMS_API_URL)")}
	}

	payload, err := json.Marshal(map[string]string{
		"to":   phoneNumber,
		"from": g.sender,
		"body": message,
	})
	if err != nil {
		return Result{Err: err}
	}

	req, err := http.NewRequest(http.MethodPost, g.apiURL, bytes.NewReader(payload))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: err}
	}

	var gw gatewayResponse
	_ = json.Unmarshal(body, &gw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if gw.Message != "" {
			return Result{Err: fmt.Errorf("SMS-шлюз вернул %d: %s", resp.StatusCode, gw.Message)}
		}
		return Result{Err: fmt.Errorf("SMS-шлюз вернул %d", resp.StatusCode)}
	}

	return Result{ProviderSID: gw.SID}
}
