package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/duolove/duolove/config"
	"github.com/duolove/duolove/internal/memory"
	"github.com/duolove/duolove/internal/server"
	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
)

type noopNotifier struct{}

func (noopNotifier) NotifyConnected(context.Context, int64, string) {}
func (noopNotifier) NotifyDisconnected(context.Context, int64)      {}
func (noopNotifier) NotifyInvite(context.Context, int64, string)    {}

type fakeBot struct{}

func (fakeBot) BotInfo() map[string]interface{} {
	return map[string]interface{}{"username": "duolove_bot", "is_bot": true}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{BotUsername: "duolove_bot", MiniAppName: "duolove"}
	svc := service.NewService(memory.NewStore(), noopNotifier{}, cfg, utils.InitLogger("error"))
	ts := httptest.NewServer(server.NewServer(svc, fakeBot{}, utils.InitLogger("error")).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, payload interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, decoded
}

func TestGenerateConnectStatusDisconnectFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/api/referral/generate", map[string]interface{}{"userId": 1001})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate returned %d", resp.StatusCode)
	}
	var code string
	if err := json.Unmarshal(body["referralCode"], &code); err != nil {
		t.Fatalf("missing referralCode: %v", err)
	}
	var link string
	if err := json.Unmarshal(body["referralLink"], &link); err != nil {
		t.Fatalf("missing referralLink: %v", err)
	}
	if link != "https://t.me/duolove_bot/duolove?startapp="+code {
		t.Fatalf("unexpected referral link %q", link)
	}

	resp, body = postJSON(t, ts.URL+"/api/referral/connect", map[string]interface{}{
		"referralCode": code,
		"userId":       2002,
		"userName":     "Anna",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("connect returned %d: %s", resp.StatusCode, body["error"])
	}
	var partnership struct {
		ReferrerID int64 `json:"referrerId"`
		ReferredID int64 `json:"referredId"`
	}
	if err := json.Unmarshal(body["partnership"], &partnership); err != nil {
		t.Fatalf("missing partnership: %v", err)
	}
	if partnership.ReferredID != 2002 || partnership.ReferrerID != 1001 {
		t.Fatalf("unexpected partnership %+v", partnership)
	}

	for _, userID := range []int64{1001, 2002} {
		resp, body = getJSON(t, fmt.Sprintf("%s/api/partner/status/%d", ts.URL, userID))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status returned %d", resp.StatusCode)
		}
		var hasPartner bool
		if err := json.Unmarshal(body["hasPartner"], &hasPartner); err != nil {
			t.Fatalf("missing hasPartner: %v", err)
		}
		if !hasPartner {
			t.Fatalf("expected hasPartner for %d", userID)
		}
	}

	resp, _ = postJSON(t, ts.URL+"/api/partner/disconnect", map[string]interface{}{"userId": 2002})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("disconnect returned %d", resp.StatusCode)
	}

	resp, body = getJSON(t, ts.URL+"/api/partner/status/1001")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status returned %d", resp.StatusCode)
	}
	var hasPartner bool
	if err := json.Unmarshal(body["hasPartner"], &hasPartner); err != nil {
		t.Fatalf("missing hasPartner: %v", err)
	}
	if hasPartner {
		t.Fatalf("expected no partner after disconnect")
	}
}

func TestConnectValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/api/referral/connect", map[string]interface{}{"userId": 2002})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code, got %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/api/referral/connect", map[string]interface{}{
		"referralCode": "ref_9999_zzz",
		"userId":       2002,
		"userName":     "Anna",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown code, got %d", resp.StatusCode)
	}
}

func TestConnectSelfCode(t *testing.T) {
	ts := newTestServer(t)

	_, body := postJSON(t, ts.URL+"/api/referral/generate", map[string]interface{}{"userId": 1001})
	var code string
	if err := json.Unmarshal(body["referralCode"], &code); err != nil {
		t.Fatalf("missing referralCode: %v", err)
	}

	resp, _ := postJSON(t, ts.URL+"/api/referral/connect", map[string]interface{}{
		"referralCode": code,
		"userId":       1001,
		"userName":     "Self",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-redemption, got %d", resp.StatusCode)
	}
}

func TestDisconnectWithoutPartnership(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/api/partner/disconnect", map[string]interface{}{"userId": 7007})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGenerateValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/api/referral/generate", map[string]interface{}{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing userId, got %d", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	_, body := postJSON(t, ts.URL+"/api/referral/generate", map[string]interface{}{"userId": 1001})
	var code string
	if err := json.Unmarshal(body["referralCode"], &code); err != nil {
		t.Fatalf("missing referralCode: %v", err)
	}
	postJSON(t, ts.URL+"/api/referral/connect", map[string]interface{}{
		"referralCode": code,
		"userId":       2002,
		"userName":     "Anna",
	})

	resp, body := getJSON(t, ts.URL+"/api/referral/stats/1001")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats returned %d", resp.StatusCode)
	}
	var total int
	if err := json.Unmarshal(body["totalReferrals"], &total); err != nil {
		t.Fatalf("missing totalReferrals: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 referral, got %d", total)
	}
}

func TestBotInfoEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, body := getJSON(t, ts.URL+"/api/bot/info")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bot info returned %d", resp.StatusCode)
	}
	var username string
	if err := json.Unmarshal(body["username"], &username); err != nil {
		t.Fatalf("missing username: %v", err)
	}
	if username != "duolove_bot" {
		t.Fatalf("unexpected username %q", username)
	}
}

func TestNotifyValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := postJSON(t, ts.URL+"/api/partner/notify", map[string]interface{}{"inviterUserId": 1001})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing invitee, got %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/api/partner/notify", map[string]interface{}{
		"inviterUserId": 1001,
		"inviteeUserId": 2002,
		"inviteeName":   "Anna",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
