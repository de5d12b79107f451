package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"

	"edeng/internal/domain"
	"edeng/internal/http/handlers"
	"edeng/internal/ypay"
)

type mailCall struct {
	to     string
	amount float64
}

type fakeMailer struct {
	calls []mailCall
	err   error
}

func (m *fakeMailer) SendOrderEmail(to string, _ domain.Contact, _ []domain.CartItem, amount float64) error {
	m.calls = append(m.calls, mailCall{to: to, amount: amount})
	return m.err
}

func ypayApp(gatewayURL string, mailer *fakeMailer) *fiber.App {
	h := &handlers.YpayHandler{
		Gateway:   ypay.NewClient(gatewayURL, "cid", "csecret", "https://shop.test"),
		Mailer:    mailer,
		AdminMail: "owner@shop.test",
	}
	app := fiber.New()
	app.Post("/api/ypay/payment", h.Payment)
	app.Post("/api/ypay/document", h.Document)
	app.Post("/api/ypay/notify-admin", h.NotifyAdmin)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

const paymentBody = `{
	"amount": 320,
	"contact": {"name":"Dana","email":"dana@example.test","phone":"050","address":"Tel Aviv"},
	"items": [{"vendor":"Gold Ring","price":160,"quantity":2}]
}`

func TestPaymentEndpointRelaysURLAndIdentifier(t *testing.T) {
	var payCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/accessToken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok"}`))
	})
	mux.HandleFunc("/payment", func(w http.ResponseWriter, r *http.Request) {
		payCalls.Add(1)
		w.Write([]byte(`{"responseCode":1,"url":"https://pay.test/go"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app := ypayApp(srv.URL, &fakeMailer{})
	resp := postJSON(t, app, "/api/ypay/payment", paymentBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out struct {
		URL              string `json:"url"`
		ChargeIdentifier string `json:"chargeIdentifier"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.URL != "https://pay.test/go" || !strings.HasPrefix(out.ChargeIdentifier, "edeng-") {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if payCalls.Load() != 1 {
		t.Fatalf("want exactly one charge submission, got %d", payCalls.Load())
	}
}

func TestPaymentEndpointTokenFailureIs500WithoutCharge(t *testing.T) {
	var payCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/accessToken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad client"}`))
	})
	mux.HandleFunc("/payment", func(w http.ResponseWriter, r *http.Request) {
		payCalls.Add(1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app := ypayApp(srv.URL, &fakeMailer{})
	resp := postJSON(t, app, "/api/ypay/payment", paymentBody)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want 500 on token failure, got %d", resp.StatusCode)
	}
	if payCalls.Load() != 0 {
		t.Fatalf("charge endpoint must never see a partial attempt, got %d calls", payCalls.Load())
	}
}

func TestPaymentEndpointRejectsEmptyCart(t *testing.T) {
	app := ypayApp("http://unused.test", &fakeMailer{})
	resp := postJSON(t, app, "/api/ypay/payment", `{"amount":10,"items":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for empty cart, got %d", resp.StatusCode)
	}
}

func TestNotifyAdminSendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	app := ypayApp("http://unused.test", mailer)

	resp := postJSON(t, app, "/api/ypay/notify-admin", paymentBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if len(mailer.calls) != 1 || mailer.calls[0].to != "owner@shop.test" || mailer.calls[0].amount != 320 {
		t.Fatalf("mail not sent to admin: %+v", mailer.calls)
	}
}

func TestNotifyAdminFailureIs500(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	app := ypayApp("http://unused.test", mailer)

	resp := postJSON(t, app, "/api/ypay/notify-admin", paymentBody)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want 500 on mail failure, got %d", resp.StatusCode)
	}
}
