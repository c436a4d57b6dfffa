package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	auctionsvc "reverse-auction/internal/auctionService"
	"reverse-auction/internal/auth"
	bidding "reverse-auction/internal/biddingService"
	"reverse-auction/internal/broadcast"
	model "reverse-auction/internal/models"
	"reverse-auction/internal/repository"
	"reverse-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "integration-test-secret"

// recordingPublisher captures ranking broadcasts instead of hitting Redis
type recordingPublisher struct {
	mu      sync.Mutex
	updates []broadcast.RankingUpdate
}

func (p *recordingPublisher) PublishRankingUpdate(_ context.Context, auctionID string, rankings []model.Ranking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, broadcast.RankingUpdate{AuctionID: auctionID, Rankings: rankings})
	return nil
}

func (p *recordingPublisher) Updates() []broadcast.RankingUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]broadcast.RankingUpdate(nil), p.updates...)
}

type testEnv struct {
	router    *gin.Engine
	tokens    *auth.TokenService
	publisher *recordingPublisher
}

// SetupTestEnv wires the full router against a SQLite file in a temp dir
// and a recording broadcast publisher.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "integration.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	repo := repository.NewGormRepo(db)
	publisher := &recordingPublisher{}
	tokens := auth.NewTokenService(testSecret, time.Hour)

	biddingSvc := bidding.NewBiddingService(repo, publisher)
	auctionSvc := auctionsvc.NewAuctionService(repo)
	router := server.SetupRouter(biddingSvc, auctionSvc, tokens)

	return &testEnv{router: router, tokens: tokens, publisher: publisher}
}

// Token issues a signed bearer token for the given user
func (e *testEnv) Token(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	token, err := e.tokens.Generate(userID, role)
	require.NoError(t, err)
	return token
}

// Do executes an HTTP request against the router and parses the JSON body
func (e *testEnv) Do(t *testing.T, method, url, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// CreateAuction creates an auction as the given buyer and returns its
// decoded representation including item IDs.
func (e *testEnv) CreateAuction(t *testing.T, buyerToken string, durationMinutes int) map[string]any {
	t.Helper()

	w, resp := e.Do(t, "POST", "/api/auctions/create", buyerToken, map[string]any{
		"title":           "Office supplies",
		"description":     "Quarterly restock",
		"durationMinutes": durationMinutes,
		"items": []map[string]any{
			{"name": "Paper", "quantity": 10, "uom": "kg", "basePrice": 3},
			{"name": "Pens", "quantity": 5, "uom": "ea", "basePrice": 1.5},
		},
	})
	require.Equal(t, 200, w.Code)

	return resp["auction"].(map[string]any)
}

// itemIDs extracts the item identifiers of a decoded auction in order
func itemIDs(t *testing.T, auction map[string]any) []string {
	t.Helper()

	raw, ok := auction["items"].([]any)
	require.True(t, ok)

	ids := make([]string, 0, len(raw))
	for _, it := range raw {
		ids = append(ids, it.(map[string]any)["id"].(string))
	}
	return ids
}
