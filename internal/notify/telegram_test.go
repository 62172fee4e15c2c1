package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/pos/settlement"
	"github.com/mebelpos/mebelpos/internal/receipts"
)

func TestSendPostsToBotAPI(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", "-100123")
	tg.baseURL = srv.URL

	err := tg.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, "/bottest-token/sendMessage", gotPath)
	require.Equal(t, "-100123", gotBody["chat_id"])
	require.Equal(t, "hello", gotBody["text"])
}

func TestSendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("test-token", "-100123")
	tg.baseURL = srv.URL

	err := tg.Send(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "chat not found")
}

func TestFormatReceipt(t *testing.T) {
	r := &receipts.Receipt{
		Number:          "R-20260901-0001",
		Total:           65000,
		PaidAmount:      50000,
		RemainingAmount: 15000,
		PaymentMethod:   "cash",
		Items: []receipts.Item{
			{Name: "shelf bracket", Quantity: 50, UnitPrice: 1300, Split: settlement.Split{Cash: 50000}},
		},
	}

	text := FormatReceipt(r)
	require.Contains(t, text, "R-20260901-0001")
	require.Contains(t, text, "shelf bracket x50 = 65,000")
	require.Contains(t, text, "Paid: 50,000 (cash)")
	require.Contains(t, text, "Debt: 15,000")
}

func TestFormatDebtReminder(t *testing.T) {
	require.Equal(t, "No open debts.", FormatDebtReminder(nil))

	open := []debts.Debt{
		{CustomerID: 1, Amount: 15000, CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)},
		{CustomerID: 2, Amount: 5000, CreatedAt: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)},
	}
	text := FormatDebtReminder(open)
	require.Contains(t, text, "Open debts: 2")
	require.Contains(t, text, "Outstanding total: 20,000")
}
