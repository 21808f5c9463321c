package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/ejfii/beginners-luck-sub000/internal/api"
	"github.com/ejfii/beginners-luck-sub000/internal/middleware"
	"github.com/ejfii/beginners-luck-sub000/internal/storage/sqlite"
)

const testUserHeader = "X-Test-User"

// testClock is a settable time source shared by every service under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testAuthInterceptor trusts the user named in the test header.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if user := req.Header().Get(testUserHeader); user != "" {
				ctx = middleware.WithUser(ctx, user, user+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

// asUser returns a client interceptor that identifies every call as user.
func asUser(user string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set(testUserHeader, user)
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	server *httptest.Server
	store  *sqlite.SQLiteStore
	clock  *testClock
}

// setupTestServer mounts the negotiation, move and proposal services on an
// httptest server backed by a temp SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	interceptors := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	NewNegotiationService(store, logger).WithClock(clock.Now).Mount(mux, interceptors)
	NewMoveService(store, logger).WithClock(clock.Now).Mount(mux, interceptors)
	NewProposalService(store, logger).WithClock(clock.Now).Mount(mux, interceptors)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return &testEnv{server: server, store: store, clock: clock}
}

func (e *testEnv) client(user string) *api.Client {
	if user == "" {
		return api.NewClient(e.server.Client(), e.server.URL)
	}
	return api.NewClient(e.server.Client(), e.server.URL, connect.WithInterceptors(asUser(user)))
}

func createNegotiation(t *testing.T, c *api.Client, eval api.CaseEvaluationInput) api.Negotiation {
	t.Helper()
	resp, err := c.CreateNegotiation.CallUnary(context.Background(), connect.NewRequest(&api.CreateNegotiationRequest{
		Title:      "Smith v. Acme",
		Plaintiff:  "Smith",
		Defendant:  "Acme",
		Evaluation: eval,
	}))
	if err != nil {
		t.Fatalf("CreateNegotiation failed: %v", err)
	}
	return resp.Msg.Negotiation
}

func requireCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected *connect.Error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Fatalf("code = %v, want %v (%v)", connectErr.Code(), want, err)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestCreateAndGetNegotiation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")
	ctx := context.Background()

	created := createNegotiation(t, alice, api.CaseEvaluationInput{
		MedicalSpecials:    api.AmountText("50k"),
		NonEconomicDamages: api.AmountOf(100000),
	})
	if created.ID == "" {
		t.Fatal("expected an ID")
	}
	if created.Evaluation.MedicalSpecials == nil || *created.Evaluation.MedicalSpecials != 50000 {
		t.Errorf("MedicalSpecials = %v, want 50000", created.Evaluation.MedicalSpecials)
	}
	if created.Evaluation.EconomicDamages != nil {
		t.Errorf("EconomicDamages = %v, want absent", *created.Evaluation.EconomicDamages)
	}

	got, err := alice.GetNegotiation.CallUnary(ctx, connect.NewRequest(&api.GetNegotiationRequest{NegotiationID: created.ID}))
	if err != nil {
		t.Fatalf("GetNegotiation failed: %v", err)
	}
	if got.Msg.Negotiation.Title != "Smith v. Acme" {
		t.Errorf("Title = %q", got.Msg.Negotiation.Title)
	}
	if !got.Msg.Negotiation.CreatedAt.Equal(env.clock.Now()) {
		t.Errorf("CreatedAt = %v, want %v", got.Msg.Negotiation.CreatedAt, env.clock.Now())
	}
}

func TestCreateNegotiationValidation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")

	tests := []struct {
		name string
		req  *api.CreateNegotiationRequest
	}{
		{
			name: "missing title",
			req:  &api.CreateNegotiationRequest{Title: "  "},
		},
		{
			name: "unparsable money",
			req: &api.CreateNegotiationRequest{
				Title:      "Case",
				Evaluation: api.CaseEvaluationInput{PolicyLimit: api.AmountText("lots")},
			},
		},
		{
			name: "negative damages",
			req: &api.CreateNegotiationRequest{
				Title:      "Case",
				Evaluation: api.CaseEvaluationInput{EconomicDamages: api.AmountOf(-1)},
			},
		},
		{
			name: "liability over 100",
			req: &api.CreateNegotiationRequest{
				Title:      "Case",
				Evaluation: api.CaseEvaluationInput{LiabilityPercentage: float64Ptr(120)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alice.CreateNegotiation.CallUnary(context.Background(), connect.NewRequest(tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestNegotiationOwnership(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")
	bob := env.client("bob")
	ctx := context.Background()

	n := createNegotiation(t, alice, api.CaseEvaluationInput{})

	_, err := bob.GetNegotiation.CallUnary(ctx, connect.NewRequest(&api.GetNegotiationRequest{NegotiationID: n.ID}))
	requireCode(t, err, connect.CodePermissionDenied)

	_, err = alice.GetNegotiation.CallUnary(ctx, connect.NewRequest(&api.GetNegotiationRequest{NegotiationID: "missing"}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = env.client("").GetNegotiation.CallUnary(ctx, connect.NewRequest(&api.GetNegotiationRequest{NegotiationID: n.ID}))
	requireCode(t, err, connect.CodeUnauthenticated)

	list, err := bob.ListNegotiations.CallUnary(ctx, connect.NewRequest(&api.ListNegotiationsRequest{}))
	if err != nil {
		t.Fatalf("ListNegotiations failed: %v", err)
	}
	if len(list.Msg.Negotiations) != 0 {
		t.Errorf("bob sees %d negotiations, want 0", len(list.Msg.Negotiations))
	}
}

func TestListNegotiationsNewestFirst(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")

	first := createNegotiation(t, alice, api.CaseEvaluationInput{})
	env.clock.Advance(time.Minute)
	second := createNegotiation(t, alice, api.CaseEvaluationInput{})

	resp, err := alice.ListNegotiations.CallUnary(context.Background(), connect.NewRequest(&api.ListNegotiationsRequest{}))
	if err != nil {
		t.Fatalf("ListNegotiations failed: %v", err)
	}
	got := resp.Msg.Negotiations
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestEvaluateNegotiation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")
	ctx := context.Background()

	n := createNegotiation(t, alice, api.CaseEvaluationInput{
		MedicalSpecials:     api.AmountText("$50,000"),
		EconomicDamages:     api.AmountOf(0),
		NonEconomicDamages:  api.AmountText("100k"),
		LiabilityPercentage: float64Ptr(75),
	})

	resp, err := alice.EvaluateNegotiation.CallUnary(ctx, connect.NewRequest(&api.EvaluateNegotiationRequest{NegotiationID: n.ID}))
	if err != nil {
		t.Fatalf("EvaluateNegotiation failed: %v", err)
	}
	v := resp.Msg.Valuation
	if !approx(v.AdjustedValue, 112500) {
		t.Errorf("AdjustedValue = %v, want 112500", v.AdjustedValue)
	}
	if v.SettlementRange.Display != "$67,500 - $101,250" {
		t.Errorf("range display = %q", v.SettlementRange.Display)
	}
	if v.RecommendedSettlementDisplay != "$84,375" {
		t.Errorf("recommended display = %q", v.RecommendedSettlementDisplay)
	}
	if v.JuryAdjustedRange != nil {
		t.Errorf("expected no jury range")
	}
	if len(v.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", v.Warnings)
	}
}

func TestUpdateEvaluation(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")
	ctx := context.Background()

	n := createNegotiation(t, alice, api.CaseEvaluationInput{MedicalSpecials: api.AmountOf(10000)})
	env.clock.Advance(time.Hour)

	resp, err := alice.UpdateEvaluation.CallUnary(ctx, connect.NewRequest(&api.UpdateEvaluationRequest{
		NegotiationID: n.ID,
		Evaluation: api.CaseEvaluationInput{
			MedicalSpecials: api.AmountOf(20000),
			PolicyLimit:     api.AmountText("15k"),
		},
	}))
	if err != nil {
		t.Fatalf("UpdateEvaluation failed: %v", err)
	}
	got := resp.Msg.Negotiation
	if got.Evaluation.PolicyLimit == nil || *got.Evaluation.PolicyLimit != 15000 {
		t.Errorf("PolicyLimit = %v, want 15000", got.Evaluation.PolicyLimit)
	}
	if !got.UpdatedAt.Equal(env.clock.Now()) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, env.clock.Now())
	}

	eval, err := alice.EvaluateNegotiation.CallUnary(ctx, connect.NewRequest(&api.EvaluateNegotiationRequest{NegotiationID: n.ID}))
	if err != nil {
		t.Fatalf("EvaluateNegotiation failed: %v", err)
	}
	// adjusted 20000, high 18000 capped at 15000
	if eval.Msg.Valuation.SettlementRange.High != 15000 {
		t.Errorf("High = %v, want 15000", eval.Msg.Valuation.SettlementRange.High)
	}

	_, err = env.client("bob").UpdateEvaluation.CallUnary(ctx, connect.NewRequest(&api.UpdateEvaluationRequest{NegotiationID: n.ID}))
	requireCode(t, err, connect.CodePermissionDenied)
}

func TestEvaluateCaseJuryOverlay(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")

	resp, err := alice.EvaluateCase.CallUnary(context.Background(), connect.NewRequest(&api.EvaluateCaseRequest{
		Evaluation: api.CaseEvaluationInput{
			MedicalSpecials:       api.AmountOf(100000),
			JuryDamagesLikelihood: float64Ptr(50),
		},
	}))
	if err != nil {
		t.Fatalf("EvaluateCase failed: %v", err)
	}
	v := resp.Msg.Valuation
	if v.JuryAdjustedRange == nil {
		t.Fatal("expected jury range")
	}
	// base 60000..90000 scaled by 50%
	if !approx(v.JuryAdjustedRange.Low, 30000) || !approx(v.JuryAdjustedRange.High, 45000) {
		t.Errorf("JuryAdjustedRange = %+v, want 30000..45000", v.JuryAdjustedRange)
	}
	if !approx(v.SettlementRange.High, 90000) {
		t.Errorf("base range must stay authoritative, High = %v", v.SettlementRange.High)
	}
}

func TestCompareScenarios(t *testing.T) {
	env := setupTestServer(t)
	alice := env.client("alice")
	ctx := context.Background()

	resp, err := alice.CompareScenarios.CallUnary(ctx, connect.NewRequest(&api.CompareScenariosRequest{
		Current:      api.CaseEvaluationInput{MedicalSpecials: api.AmountOf(100000)},
		Hypothetical: api.CaseEvaluationInput{MedicalSpecials: api.AmountOf(50000)},
	}))
	if err != nil {
		t.Fatalf("CompareScenarios failed: %v", err)
	}
	delta := resp.Msg.Delta
	if !approx(delta.Absolute, -45000) {
		t.Errorf("Absolute = %v, want -45000", delta.Absolute)
	}
	if delta.Percentage == nil || !approx(*delta.Percentage, -50) {
		t.Errorf("Percentage = %v, want -50", delta.Percentage)
	}
	if delta.Display != "-$45,000" {
		t.Errorf("Display = %q, want -$45,000", delta.Display)
	}

	zero, err := alice.CompareScenarios.CallUnary(ctx, connect.NewRequest(&api.CompareScenariosRequest{
		Hypothetical: api.CaseEvaluationInput{MedicalSpecials: api.AmountOf(10000)},
	}))
	if err != nil {
		t.Fatalf("CompareScenarios failed: %v", err)
	}
	if zero.Msg.Delta.Percentage != nil {
		t.Errorf("Percentage = %v, want nil for a zero current", *zero.Msg.Delta.Percentage)
	}

	_, err = alice.CompareScenarios.CallUnary(ctx, connect.NewRequest(&api.CompareScenariosRequest{
		Hypothetical: api.CaseEvaluationInput{PolicyLimit: api.AmountText("abc")},
	}))
	requireCode(t, err, connect.CodeInvalidArgument)
	if !strings.Contains(err.Error(), "hypothetical.policy_limit") {
		t.Errorf("error %q should name hypothetical.policy_limit", err)
	}
}

func float64Ptr(v float64) *float64 { return &v }
