package integrationtests

import (
	auction "auction-house/internal/auctionService"
	model "auction-house/internal/models"
	"auction-house/internal/notify"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "integration-test-secret"

var (
	adminUser   = model.User{UserID: "admin1", Username: "Admin"}
	regularUser = model.User{UserID: "user1", Username: "Bidder One"}
)

// BearerToken signs a token the way the upstream identity exchange does.
func BearerToken(t *testing.T, user model.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.UserID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// SetupTestRouter initializes the router with an in-memory store for
// integration testing. Only adminUser passes the admin gate.
func SetupTestRouter() (*gin.Engine, *repository.MemoryStore) {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore()
	service := auction.NewAuctionService(store, notify.NopNotifier{}, time.Now)
	isAdmin := func(userID string) bool { return userID == adminUser.UserID }
	router := server.SetupRouter(service, testJWTSecret, isAdmin)
	return router, store
}

// SetupTestRouterWithAuctions initializes the router and seeds the store.
func SetupTestRouterWithAuctions(auctions ...model.Auction) (*gin.Engine, *repository.MemoryStore) {
	router, store := SetupTestRouter()
	for _, a := range auctions {
		if err := store.CreateAuction(a); err != nil {
			panic(err)
		}
	}
	return router, store
}

// ExecuteRequest executes an HTTP request with an optional bearer token and
// returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes a request and parses the JSON envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, token, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// activeAuction builds a seedable active auction ending an hour from now.
func activeAuction(id string, startBid float64) model.Auction {
	return model.Auction{
		ID:          id,
		Title:       "Auction " + id,
		Description: "integration test auction",
		StartBid:    startBid,
		CurrentBid:  startBid,
		BidHistory:  []model.Bid{},
		EndDate:     time.Now().UTC().Add(time.Hour),
		CreatorID:   adminUser.UserID,
		CreatorName: adminUser.Username,
		Status:      model.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
}
