package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"
	auction "auction-house/internal/auctionService"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// asUser injects an authenticated principal the way the auth middleware does.
func asUser(user model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func activeAuction(id string) model.Auction {
	return model.Auction{
		ID:         id,
		Title:      "Vintage synth",
		StartBid:   100,
		CurrentBid: 100,
		BidHistory: []model.Bid{},
		EndDate:    testNow.Add(time.Hour),
		Status:     model.StatusActive,
		CreatedAt:  testNow,
	}
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	bidder := model.User{UserID: "user1", Username: "Bidder One"}

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/bids", asUser(bidder), h.PlaceBidHandler)

	updatedAuction := activeAuction("a1")
	updatedAuction.CurrentBid = 150
	updatedAuction.CurrentBidderID = bidder.UserID
	updatedAuction.CurrentBidderName = bidder.Username
	updatedAuction.BidHistory = []model.Bid{{
		BidderID:   bidder.UserID,
		BidderName: bidder.Username,
		Amount:     150,
		Timestamp:  testNow,
	}}

	tests := []struct {
		name           string
		auctionID      string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			auctionID:   "a1",
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", bidder, 150.0).
					Return(updatedAuction, 100.0, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "a1", data["auction_id"])
				require.Equal(t, "user1", data["bidder_id"])
				require.Equal(t, 150.0, data["amount"])
				require.Equal(t, 100.0, data["previous_bid"])
				require.Equal(t, 150.0, data["current_bid"])
			},
		},
		{
			name:           "invalid_json",
			auctionID:      "a1",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_amount",
			auctionID:      "a1",
			requestBody:    map[string]any{},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "non_positive_amount_fails_binding",
			auctionID:      "a1",
			requestBody:    map[string]any{"amount": -10},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "auction_not_found",
			auctionID:   "missing",
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("missing", bidder, 150.0).
					Return(model.Auction{}, 0.0, fmt.Errorf("service: %w", auctionerrors.ErrAuctionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
		{
			name:        "bid_too_low",
			auctionID:   "a1",
			requestBody: helpers.PlaceBidRequest{Amount: 80},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", bidder, 80.0).
					Return(model.Auction{}, 0.0, fmt.Errorf("service: %w - bid 80.00 must exceed current bid 100.00", auctionerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
		},
		{
			name:        "auction_closed",
			auctionID:   "a1",
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", bidder, 150.0).
					Return(model.Auction{}, 0.0, fmt.Errorf("service: %w", auctionerrors.ErrAuctionClosed))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "auction is closed for bidding",
		},
		{
			name:        "internal_error",
			auctionID:   "a1",
			requestBody: helpers.PlaceBidRequest{Amount: 150},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", bidder, 150.0).
					Return(model.Auction{}, 0.0, errors.New("store exploded"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			var body []byte
			switch v := tc.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				require.NoError(t, err)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auctions/"+tc.auctionID+"/bids", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.validateData != nil {
				data, ok := resp["data"].(map[string]any)
				require.True(t, ok, "expected data object in response")
				tc.validateData(t, data)
			}
		})
	}
}

// Bidding without an authenticated principal is rejected before the service runs.
func TestPlaceBidHandler_NoUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/bids", h.PlaceBidHandler)

	body, _ := json.Marshal(helpers.PlaceBidRequest{Amount: 150})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auctions/a1/bids", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// Test CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	admin := model.User{UserID: "admin1", Username: "Admin"}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/auctions", asUser(admin), h.CreateAuctionHandler)

	endDate := testNow.Add(24 * time.Hour)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			requestBody: helpers.CreateAuctionRequest{
				Title:    "Vintage synth",
				StartBid: 100,
				EndDate:  endDate,
			},
			mockSetup: func() {
				created := activeAuction(uuid.NewString())
				created.CreatorID = admin.UserID
				created.CreatorName = admin.Username
				mockService.EXPECT().
					CreateAuction(admin, auction.CreateAuctionInput{
						Title:    "Vintage synth",
						StartBid: 100,
						EndDate:  endDate,
					}).
					Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
		},
		{
			name:           "missing_title_fails_binding",
			requestBody:    map[string]any{"start_bid": 100, "end_date": endDate},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "validation_error_from_service",
			requestBody: helpers.CreateAuctionRequest{
				Title:    "Too late",
				StartBid: 100,
				EndDate:  endDate,
			},
			mockSetup: func() {
				mockService.EXPECT().
					CreateAuction(admin, gomock.Any()).
					Return(model.Auction{}, fmt.Errorf("service: %w - end date must be in the future", auctionerrors.ErrValidation))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid auction details",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			var body []byte
			switch v := tc.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				require.NoError(t, err)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/auctions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.expectedMsg, resp["message"])
		})
	}
}

// Test GetAuctionHandler
func TestGetAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id", h.GetAuctionHandler)

	t.Run("found", func(t *testing.T) {
		mockService.EXPECT().GetAuction("a1").Return(activeAuction("a1"), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auctions/a1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		require.Equal(t, "a1", data["id"])
		require.Equal(t, "active", data["status"])
		require.Nil(t, data["winner_id"], "winner stays null while active")
	})

	t.Run("not_found", func(t *testing.T) {
		mockService.EXPECT().
			GetAuction("missing").
			Return(model.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionNotFound))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auctions/missing", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Test ListActiveAuctionsHandler
func TestListActiveAuctionsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions", h.ListActiveAuctionsHandler)

	t.Run("returns_auctions_in_order", func(t *testing.T) {
		mockService.EXPECT().
			ListActiveAuctions().
			Return([]model.Auction{activeAuction("soon"), activeAuction("later")}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auctions", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].([]any)
		require.Len(t, data, 2)
		require.Equal(t, "soon", data[0].(map[string]any)["id"])
	})

	t.Run("empty_list_not_null", func(t *testing.T) {
		mockService.EXPECT().ListActiveAuctions().Return(nil, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auctions", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"data":[]`)
	})
}

// Test FinalizeAuctionHandler
func TestFinalizeAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	admin := model.User{UserID: "admin1", Username: "Admin"}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/auctions/:auction_id/finalize", asUser(admin), h.FinalizeAuctionHandler)

	t.Run("success", func(t *testing.T) {
		winnerID := "user1"
		winnerName := "Bidder One"
		finalPrice := 150.0
		finalized := activeAuction("a1")
		finalized.Status = model.StatusFinalized
		finalized.WinnerID = &winnerID
		finalized.WinnerName = &winnerName
		finalized.FinalPrice = &finalPrice

		mockService.EXPECT().FinalizeAuction("a1").Return(finalized, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/auctions/a1/finalize", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]any)
		require.Equal(t, "finalized", data["status"])
		require.Equal(t, "user1", data["winner_id"])
		require.Equal(t, 150.0, data["final_price"])
	})

	t.Run("already_closed", func(t *testing.T) {
		mockService.EXPECT().
			FinalizeAuction("a1").
			Return(model.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrAlreadyClosed))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/auctions/a1/finalize", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "auction already closed", resp["message"])
	})
}

// Test DeleteAuctionHandler
func TestDeleteAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	admin := model.User{UserID: "admin1", Username: "Admin"}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/admin/auctions/:auction_id", asUser(admin), h.DeleteAuctionHandler)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().DeleteAuction("a1").Return(activeAuction("a1"), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/auctions/a1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		mockService.EXPECT().
			DeleteAuction("missing").
			Return(model.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionNotFound))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/auctions/missing", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
