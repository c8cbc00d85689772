//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"palmgrove-bookings/internal/handler/api"
	reqdto "palmgrove-bookings/internal/handler/dto/request"
	resdto "palmgrove-bookings/internal/handler/dto/response"
	"palmgrove-bookings/internal/usecase/commands"
	"palmgrove-bookings/internal/usecase/queries"
	"palmgrove-bookings/tests/common/httptest"
	"palmgrove-bookings/tests/common/testutil"
	commandsmock "palmgrove-bookings/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockPayments *commandsmock.MockPaymentCommands
	handler      *api.PaymentHandler
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockPayments = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockPayments)

	s.router.POST("/bookings/:id/payment-session", s.handler.OpenSession)
	// The callback route carries no bearer auth; the signature is the credential.
	s.router.POST("/payments/callback", s.handler.HandleCallback)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func sessionViewFixture(bookingID uuid.UUID) *queries.PaymentSessionView {
	return &queries.PaymentSessionView{
		ID:             uuid.New(),
		BookingID:      bookingID,
		GatewayOrderID: "order_abc",
		Amount:         9100,
		Currency:       "INR",
		Status:         "created",
		CreatedAt:      time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC),
	}
}

// ================================================================================
// TestOpenSession
// ================================================================================

func (s *PaymentHandlerTestSuite) TestOpenSession() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/payment-session"

	s.Run("success: returns 201 Created with the session", func() {
		view := sessionViewFixture(bookingID)
		s.mockPayments.EXPECT().OpenSession(gomock.Any(), bookingID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var response resdto.PaymentSessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(bookingID, response.BookingID)
		s.Equal("order_abc", response.GatewayOrderID)
		s.Equal(int64(9100), response.Amount)
		s.Equal("created", response.Status)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/invalid-uuid/payment-session", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "booking not found",
				commandsError:  commands.ErrBookingNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Booking not found",
			},
			{
				name:           "booking not payable",
				commandsError:  commands.ErrBookingNotPayable,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Booking is not payable",
			},
			{
				name:           "gateway unavailable",
				commandsError:  commands.ErrGatewayUnavailable,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "Payment gateway is unavailable",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockPayments.EXPECT().OpenSession(gomock.Any(), bookingID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestHandleCallback
// ================================================================================

func (s *PaymentHandlerTestSuite) TestHandleCallback() {
	url := "/payments/callback"
	reqBody := reqdto.PaymentCallbackRequest{
		GatewayOrderID: "order_abc",
		PaymentID:      "pay_123",
		Signature:      "deadbeef",
	}

	s.Run("success: returns 200 OK with the booking outcome", func() {
		bookingID := uuid.New()
		result := &commands.CallbackResult{
			BookingID:     bookingID,
			PaymentStatus: "paid",
			BookingStatus: "confirmed",
		}
		s.mockPayments.EXPECT().HandleCallback(gomock.Any(), reqBody.ToParams()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CallbackResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.BookingID)
		s.Equal("paid", response.PaymentStatus)
		s.Equal("confirmed", response.BookingStatus)
		s.False(response.Replayed)
	})

	s.Run("success: duplicate callback is acknowledged as replayed", func() {
		result := &commands.CallbackResult{
			BookingID:     uuid.New(),
			PaymentStatus: "paid",
			BookingStatus: "confirmed",
			Replayed:      true,
		}
		s.mockPayments.EXPECT().HandleCallback(gomock.Any(), reqBody.ToParams()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.CallbackResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Replayed)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: gateway_order_id", mutate: testutil.Field("gateway_order_id", nil)},
			{name: "missing field: payment_id", mutate: testutil.Field("payment_id", nil)},
			{name: "missing field: signature", mutate: testutil.Field("signature", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid callback format")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "forged signature",
				commandsError:  commands.ErrSignatureInvalid,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Callback signature verification failed",
			},
			{
				name:           "unknown gateway order",
				commandsError:  commands.ErrSessionNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Payment session not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockPayments.EXPECT().HandleCallback(gomock.Any(), reqBody.ToParams()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
