package miniapp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/duolove/duolove/config"
	"github.com/duolove/duolove/internal/memory"
	"github.com/duolove/duolove/internal/miniapp"
	"github.com/duolove/duolove/internal/server"
	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
)

type noopNotifier struct{}

func (noopNotifier) NotifyConnected(context.Context, int64, string) {}
func (noopNotifier) NotifyDisconnected(context.Context, int64)      {}
func (noopNotifier) NotifyInvite(context.Context, int64, string)    {}

// newBackend поднимает настоящий бэкенд поверх реестров в памяти.
func newBackend(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	cfg := &config.Config{BotUsername: "duolove_bot", MiniAppName: "duolove"}
	svc := service.NewService(memory.NewStore(), noopNotifier{}, cfg, utils.InitLogger("error"))
	ts := httptest.NewServer(server.NewServer(svc, nil, utils.InitLogger("error")).Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func TestWorkflowHappyPath(t *testing.T) {
	ts, svc := newBackend(t)
	store := newTestStore(t)
	ctx := context.Background()

	code, err := svc.EnsureCode(ctx, 1001)
	if err != nil {
		t.Fatalf("failed to ensure code: %v", err)
	}

	w := miniapp.NewWorkflow(store, miniapp.NewClient(ts.URL), utils.InitLogger("error"), 2002, "Anna")
	if got := w.Run(ctx, code); got != miniapp.StateConnected {
		t.Fatalf("expected CONNECTED, got %s (%s)", got, w.LastError())
	}

	partner, err := store.GetPartner(2002)
	if err != nil {
		t.Fatalf("failed to read local partner: %v", err)
	}
	if partner == nil || partner.PartnerID != 1001 {
		t.Fatalf("expected local partner 1001, got %+v", partner)
	}
	if partner.PartnerName != "User 1001" {
		t.Fatalf("expected the server-side placeholder name, got %q", partner.PartnerName)
	}

	serverSide, err := svc.PartnerStatus(ctx, 1001)
	if err != nil {
		t.Fatalf("failed to get server partnership: %v", err)
	}
	if serverSide == nil || serverSide.PartnerID != 2002 {
		t.Fatalf("expected server partnership 1001->2002, got %+v", serverSide)
	}
}

func TestWorkflowEmptyCodeStaysIdle(t *testing.T) {
	ts, _ := newBackend(t)
	store := newTestStore(t)

	w := miniapp.NewWorkflow(store, miniapp.NewClient(ts.URL), utils.InitLogger("error"), 2002, "Anna")
	if got := w.Run(context.Background(), ""); got != miniapp.StateIdle {
		t.Fatalf("expected IDLE for regular open, got %s", got)
	}
}

func TestWorkflowRejectsOwnCodeWithoutNetwork(t *testing.T) {
	// Любой запрос к серверу — провал теста: свой код отсекается локально.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network call: %s %s", r.Method, r.URL.Path)
		http.Error(w, "should not be called", http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)
	store := newTestStore(t)

	w := miniapp.NewWorkflow(store, miniapp.NewClient(backend.URL), utils.InitLogger("error"), 1001, "Self")
	if got := w.Run(context.Background(), "ref_1001_abc"); got != miniapp.StateRejected {
		t.Fatalf("expected REJECTED, got %s", got)
	}
	if p, _ := store.GetPartner(1001); p != nil {
		t.Fatalf("expected no local partner, got %+v", p)
	}
}

func TestWorkflowRejectsWhenAlreadyPartnered(t *testing.T) {
	ts, svc := newBackend(t)
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddPartner(2002, 1001, "Anna", ""); err != nil {
		t.Fatalf("failed to seed local partner: %v", err)
	}
	code, err := svc.EnsureCode(ctx, 3003)
	if err != nil {
		t.Fatalf("failed to ensure code: %v", err)
	}

	w := miniapp.NewWorkflow(store, miniapp.NewClient(ts.URL), utils.InitLogger("error"), 2002, "Anna")
	if got := w.Run(ctx, code); got != miniapp.StateRejected {
		t.Fatalf("expected REJECTED for already partnered user, got %s", got)
	}
}

func TestWorkflowUnknownCodeFails(t *testing.T) {
	ts, _ := newBackend(t)
	store := newTestStore(t)

	w := miniapp.NewWorkflow(store, miniapp.NewClient(ts.URL), utils.InitLogger("error"), 2002, "Anna")
	if got := w.Run(context.Background(), "ref_9999_zzz"); got != miniapp.StateFailed {
		t.Fatalf("expected FAILED for unknown code, got %s", got)
	}
	if w.LastError() == "" {
		t.Fatal("expected a user-facing error message")
	}
	// Неудачный редемпшен не оставляет локального состояния.
	if p, _ := store.GetPartner(2002); p != nil {
		t.Fatalf("expected no local partner, got %+v", p)
	}
}

func TestWorkflowOneShotPerSession(t *testing.T) {
	ts, svc := newBackend(t)
	store := newTestStore(t)
	ctx := context.Background()

	code, err := svc.EnsureCode(ctx, 1001)
	if err != nil {
		t.Fatalf("failed to ensure code: %v", err)
	}

	w := miniapp.NewWorkflow(store, miniapp.NewClient(ts.URL), utils.InitLogger("error"), 2002, "Anna")
	if got := w.Run(ctx, code); got != miniapp.StateConnected {
		t.Fatalf("expected CONNECTED, got %s", got)
	}

	// Повторный рендер/навигация с тем же кодом не меняет состояния.
	if got := w.Run(ctx, code); got != miniapp.StateConnected {
		t.Fatalf("expected state to stay CONNECTED, got %s", got)
	}
}
