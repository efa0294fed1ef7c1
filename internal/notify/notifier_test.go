package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannel struct {
	name string
	err  error
	sent int
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(ctx context.Context, data Data) error {
	s.sent++
	return s.err
}

func testData() Data {
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	return Data{
		RecipientName:  "Alice",
		RecipientEmail: "alice@example.com",
		RecipientPhone: "+12345678901",
		OfficeID:       1,
		OfficeName:     "Conference Room A",
		Start:          start,
		End:            start.Add(2 * time.Hour),
		ReservationID:  42,
	}
}

func TestCombinedSend(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("BothSucceed", func(t *testing.T) {
		email := &stubChannel{name: "email"}
		sms := &stubChannel{name: "sms"}
		n := NewCombined(email, sms, 100, &logger)

		res := n.Send(context.Background(), testData())
		assert.True(t, res.EmailSent)
		assert.True(t, res.SMSSent)
		assert.Equal(t, 1, email.sent)
		assert.Equal(t, 1, sms.sent)
	})

	t.Run("FailureIsIsolated", func(t *testing.T) {
		email := &stubChannel{name: "email", err: errors.New("smtp down")}
		sms := &stubChannel{name: "sms"}
		n := NewCombined(email, sms, 100, &logger)

		res := n.Send(context.Background(), testData())
		assert.False(t, res.EmailSent)
		assert.True(t, res.SMSSent, "sms still delivered when email fails")
	})

	t.Run("NilChannel", func(t *testing.T) {
		sms := &stubChannel{name: "sms"}
		n := NewCombined(nil, sms, 100, &logger)

		res := n.Send(context.Background(), testData())
		assert.False(t, res.EmailSent)
		assert.True(t, res.SMSSent)
	})
}

func TestEmailChannelLogOnly(t *testing.T) {
	logger := zerolog.Nop()
	ch := NewEmailChannel(EmailConfig{}, &logger)

	assert.NoError(t, ch.Send(context.Background(), testData()))
}

func TestEmailBody(t *testing.T) {
	body := buildEmailBody(testData())
	assert.Contains(t, body, "Dear Alice")
	assert.Contains(t, body, "Conference Room A (Office #1)")
	assert.Contains(t, body, "2025-06-02 10:00 - 12:00")
	assert.Contains(t, body, "Reservation ID: 42")
}

func TestSMSChannel(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("LogOnly", func(t *testing.T) {
		ch := NewSMSChannel(SMSConfig{}, &logger)
		assert.NoError(t, ch.Send(context.Background(), testData()))
	})

	t.Run("Gateway", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			var req smsRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "+12345678901", req.To)
			assert.Contains(t, req.Text, "Conference Room A (#1)")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		ch := NewSMSChannel(SMSConfig{Server: srv.URL, APIKey: "secret"}, &logger)
		assert.NoError(t, ch.Send(context.Background(), testData()))
		assert.Equal(t, "Bearer secret", gotAuth)
	})

	t.Run("GatewayError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		ch := NewSMSChannel(SMSConfig{Server: srv.URL}, &logger)
		assert.Error(t, ch.Send(context.Background(), testData()))
	})
}
