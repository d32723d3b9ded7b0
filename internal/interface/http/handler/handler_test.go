package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/http/middleware"
	"github.com/ignatzorin/talent-escrow/internal/infrastructure/memstore"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/handler"
	"github.com/ignatzorin/talent-escrow/internal/usecase/escrow"
	"github.com/ignatzorin/talent-escrow/internal/usecase/profile"
)

const T int64 = 1_700_000_000

type tokenTable map[string]identity.Address

func (t tokenTable) ParseAccessToken(token string) (identity.Address, error) {
	if addr, ok := t[token]; ok {
		return addr, nil
	}
	return identity.ZeroAddress, errors.New("unknown token")
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	store  *memstore.Store
	now    int64

	recruiter identity.Address
	candidate identity.Address
}

func newParty(t *testing.T) identity.Address {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return identity.AddressOf(key)
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &server{
		t:         t,
		store:     memstore.New(),
		now:       T,
		recruiter: newParty(t),
		candidate: newParty(t),
	}

	deps := escrow.Dependencies{
		Store:    s.store,
		Profiles: s.store.Profiles(),
		Now:      func() int64 { return s.now },
	}
	kinds := valueobject.NewKinds(valueobject.ScoutConfig(0, 0), valueobject.ContactConfig(0, 0))
	deps.Kinds = kinds

	offers := handler.NewOfferHandler(
		escrow.NewOpenOfferUseCase(deps),
		escrow.NewRespondOfferUseCase(deps),
		escrow.NewReclaimExpiredUseCase(deps),
		escrow.NewGetOfferUseCase(deps),
		escrow.NewListOffersUseCase(deps),
		kinds,
	)
	profiles := handler.NewProfileHandler(
		profile.NewCreateProfileUseCase(s.store.Profiles()),
		profile.NewUpdateProfileUseCase(s.store.Profiles()),
		profile.NewGetProfileUseCase(s.store.Profiles()),
	)

	auth := middleware.AuthMiddleware(tokenTable{"recruiter": s.recruiter, "candidate": s.candidate})
	r := gin.New()
	api := r.Group("/api")
	api.GET("/offers/derive", offers.DeriveAddress)
	api.GET("/offers/:id", middleware.RecordAddressParam("id"), offers.GetOffer)
	api.GET("/profiles/:address", middleware.RecordAddressParam("address"), profiles.GetProfile)

	protected := api.Group("/", auth)
	protected.POST("/profiles", profiles.CreateProfile)
	protected.GET("/profiles/me", profiles.GetMe)
	protected.PUT("/profiles/me", profiles.UpdateMe)
	protected.GET("/offers", offers.ListMyOffers)
	protected.POST("/offers/:id", offers.OpenOffer)
	protected.POST("/offers/:id/respond", middleware.RecordAddressParam("id"), offers.RespondOffer)
	protected.POST("/offers/:id/reclaim", middleware.RecordAddressParam("id"), offers.ReclaimExpired)
	s.engine = r

	_, err := s.store.Deposit(context.Background(), s.recruiter, 5_000_000, "test")
	require.NoError(t, err)
	return s
}

func (s *server) do(method, path, token string, body any) (int, apiResponse) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type profileBody struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Handle  string `json:"handle"`
}

type offerBody struct {
	Address     string `json:"address"`
	Opener      string `json:"opener"`
	TargetOwner string `json:"target_owner"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Custody     int64  `json:"custody"`
	Expired     bool   `json:"expired"`
}

func (s *server) createCandidateProfile() profileBody {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/profiles", "candidate", map[string]any{
		"handle":              "Candidate",
		"skills":              []string{"go"},
		"response_time_hours": 24,
	})
	require.Equal(s.t, http.StatusCreated, code)
	return decode[profileBody](s.t, resp.Data)
}

func (s *server) openScout(target string, amount int64) (int, apiResponse) {
	return s.do(http.MethodPost, "/api/offers/scout", "recruiter", map[string]any{
		"target_profile": target,
		"message":        "hello",
		"amount":         amount,
	})
}

func TestProfileEndpoints(t *testing.T) {
	s := newServer(t)
	created := s.createCandidateProfile()
	assert.Equal(t, "candidate", created.Handle)
	assert.Equal(t, s.candidate.Hex(), created.Owner)

	code, resp := s.do(http.MethodGet, "/api/profiles/"+created.Address, "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.Address, decode[profileBody](t, resp.Data).Address)

	code, resp = s.do(http.MethodPost, "/api/profiles", "candidate", map[string]any{
		"handle":              "another",
		"response_time_hours": 24,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	code, _ = s.do(http.MethodPut, "/api/profiles/me", "candidate", map[string]any{"bio": "updated"})
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(http.MethodGet, "/api/profiles/me", "recruiter", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestOfferLifecycle_Accept(t *testing.T) {
	s := newServer(t)
	target := s.createCandidateProfile()

	code, resp := s.openScout(target.Address, 2_000_000)
	require.Equal(t, http.StatusCreated, code)
	offer := decode[offerBody](t, resp.Data)
	assert.Equal(t, "pending", offer.Status)

	code, resp = s.do(http.MethodGet, "/api/offers/"+offer.Address, "", nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[offerBody](t, resp.Data)
	assert.EqualValues(t, 2_000_000, view.Custody)

	code, resp = s.do(http.MethodGet, "/api/offers/derive?kind=scout&opener="+s.recruiter.Hex()+"&target="+target.Address, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, offer.Address, decode[offerBody](t, resp.Data).Address)

	respond := map[string]any{"accept": true, "profile": target.Address, "opener": s.recruiter.Hex()}

	code, resp = s.do(http.MethodPost, "/api/offers/"+offer.Address+"/respond", "recruiter", respond)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	code, resp = s.do(http.MethodPost, "/api/offers/"+offer.Address+"/respond", "candidate", respond)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "accepted", decode[offerBody](t, resp.Data).Status)

	code, resp = s.do(http.MethodPost, "/api/offers/"+offer.Address+"/respond", "candidate", respond)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)

	balance, err := s.store.GetBalance(context.Background(), s.candidate)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, balance.Available)
}

func TestOfferLifecycle_Reclaim(t *testing.T) {
	s := newServer(t)
	target := s.createCandidateProfile()

	code, resp := s.openScout(target.Address, 1_000_000)
	require.Equal(t, http.StatusCreated, code)
	offer := decode[offerBody](t, resp.Data)

	code, resp = s.do(http.MethodPost, "/api/offers/"+offer.Address+"/reclaim", "candidate", nil)
	assert.Equal(t, http.StatusTooEarly, code)
	assert.Equal(t, "NOT_YET_EXPIRED", resp.Error.Code)

	s.now = T + 7*24*3600
	code, resp = s.do(http.MethodPost, "/api/offers/"+offer.Address+"/respond", "candidate", map[string]any{
		"accept": false, "profile": target.Address, "opener": s.recruiter.Hex(),
	})
	assert.Equal(t, http.StatusGone, code)
	assert.Equal(t, "OFFER_EXPIRED", resp.Error.Code)

	code, resp = s.do(http.MethodPost, "/api/offers/"+offer.Address+"/reclaim", "candidate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "expired", decode[offerBody](t, resp.Data).Status)
}

func TestOpenOffer_Errors(t *testing.T) {
	s := newServer(t)
	target := s.createCandidateProfile()

	code, resp := s.openScout(target.Address, 9_000_000)
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", resp.Error.Code)

	code, resp = s.openScout(target.Address, 10)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, _ = s.do(http.MethodPost, "/api/offers/job", "recruiter", map[string]any{"target_profile": target.Address, "amount": 1_000_000})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/offers/scout", "", map[string]any{"target_profile": target.Address, "amount": 1_000_000})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.openScout(target.Address, 1_000_000)
	require.Equal(t, http.StatusCreated, code)
	code, resp = s.openScout(target.Address, 1_000_000)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STATE_CONFLICT", resp.Error.Code)
}

func TestListMyOffers(t *testing.T) {
	s := newServer(t)
	target := s.createCandidateProfile()
	code, _ := s.openScout(target.Address, 1_000_000)
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do(http.MethodGet, "/api/offers?role=target", "candidate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]offerBody](t, resp.Data), 1)

	code, resp = s.do(http.MethodGet, "/api/offers?role=opener", "candidate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]offerBody](t, resp.Data))

	code, _ = s.do(http.MethodGet, "/api/offers?status=responded", "candidate", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
