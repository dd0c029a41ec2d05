//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"clubops/internal/domain/session"
	"clubops/internal/handler/api"
	"clubops/internal/pkg/errs"
	"clubops/internal/usecase/commands"
	"clubops/internal/usecase/queries"
	"clubops/tests/common/builder"
	"clubops/tests/common/httptest"
	commandsmock "clubops/tests/mock/commands"
	queriesmock "clubops/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LaneHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCtrl        *gomock.Controller
	mockLanes       *commandsmock.MockLaneCommands
	mockAssignments *commandsmock.MockAssignmentCommands
	mockQueries     *queriesmock.MockSessionQueries
	handler         *api.LaneHandler
}

func (s *LaneHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockLanes = commandsmock.NewMockLaneCommands(s.mockCtrl)
	s.mockAssignments = commandsmock.NewMockAssignmentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSessionQueries(s.mockCtrl)
	s.handler = api.NewLaneHandler(s.mockLanes, s.mockAssignments, s.mockQueries)

	s.router.GET("/api/lanes/:laneId/session", s.handler.GetSession)
	s.router.POST("/api/lanes/:laneId/session", s.handler.StartSession)
	s.router.DELETE("/api/lanes/:laneId/session", s.handler.Reset)
	s.router.POST("/api/lanes/:laneId/session/propose-selection", s.handler.ProposeSelection)
	s.router.POST("/api/lanes/:laneId/session/confirm-selection", s.handler.ConfirmSelection)
	s.router.POST("/api/lanes/:laneId/session/acknowledge-selection", s.handler.AcknowledgeSelection)
	s.router.POST("/api/lanes/:laneId/session/assign", s.handler.Assign)
	s.router.POST("/api/lanes/:laneId/session/assign/customer-response", s.handler.CustomerResponse)
	s.router.POST("/api/lanes/:laneId/session/signature", s.handler.Sign)
}

func (s *LaneHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLaneHandlerSuite(t *testing.T) {
	suite.Run(t, new(LaneHandlerTestSuite))
}

func (s *LaneHandlerTestSuite) TestStartSession() {
	url := "/api/lanes/lane-1/session"
	scan := "SCAN-0042"

	s.Run("success", func() {
		view := builder.NewSessionViewBuilder().Build()
		s.mockLanes.EXPECT().
			StartSession(gomock.Any(), "lane-1", commands.StartSessionParams{
				ScanValue:        &scan,
				MembershipIntent: session.MembershipNone,
			}).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"scanValue": scan}, "")

		var got queries.SessionView
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &got)
		s.Equal(view.SessionID, got.SessionID)
		s.Equal("Ada Lovelace", got.CustomerName)
	})

	s.Run("unknown customer", func() {
		s.mockLanes.EXPECT().
			StartSession(gomock.Any(), "lane-1", gomock.Any()).
			Return(nil, errs.ErrSessionNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"scanValue": scan}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})

	s.Run("busy lane conflicts", func() {
		s.mockLanes.EXPECT().
			StartSession(gomock.Any(), "lane-1", gomock.Any()).
			Return(nil, errs.ErrLaneBusy)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"scanValue": scan}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "Lane already has an active session")
	})

	s.Run("invalid membership intent", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"scanValue":                scan,
			"membershipPurchaseIntent": "GOLD",
		}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid membership intent")
	})
}

func (s *LaneHandlerTestSuite) TestGetSession() {
	url := "/api/lanes/lane-1/session"

	s.Run("success", func() {
		view := builder.NewSessionViewBuilder().WithProposal("STANDARD", "CUSTOMER").Build()
		s.mockQueries.EXPECT().GetActiveByLane(gomock.Any(), "lane-1").Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var got queries.SessionView
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &got)
		s.Require().NotNil(got.ProposedRentalType)
		s.Equal("STANDARD", *got.ProposedRentalType)
	})

	s.Run("idle lane is 404", func() {
		s.mockQueries.EXPECT().GetActiveByLane(gomock.Any(), "lane-1").Return(nil, errs.ErrSessionNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})
}

func (s *LaneHandlerTestSuite) TestProposeSelection() {
	url := "/api/lanes/lane-1/session/propose-selection"

	s.Run("success", func() {
		view := builder.NewSessionViewBuilder().WithProposal("DOUBLE", "EMPLOYEE").Build()
		s.mockLanes.EXPECT().
			Propose(gomock.Any(), "lane-1", session.RentalDouble, session.ActorEmployee).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"rentalType": "DOUBLE",
			"actor":      "EMPLOYEE",
		}, "")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &queries.SessionView{})
	})

	s.Run("invalid rental type", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"rentalType": "PENTHOUSE",
			"actor":      "EMPLOYEE",
		}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid rental type")
	})

	s.Run("missing fields fail binding", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("locked selection is a business rule violation", func() {
		s.mockLanes.EXPECT().
			Propose(gomock.Any(), "lane-1", session.RentalDouble, session.ActorCustomer).
			Return(nil, session.ErrSelectionLocked)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{
			"rentalType": "DOUBLE",
			"actor":      "CUSTOMER",
		}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})
}

func (s *LaneHandlerTestSuite) TestConfirmSelection() {
	url := "/api/lanes/lane-1/session/confirm-selection"

	s.Run("success", func() {
		view := builder.NewSessionViewBuilder().WithLockedSelection("STANDARD", "CUSTOMER").Build()
		s.mockLanes.EXPECT().
			Confirm(gomock.Any(), "lane-1", session.ActorCustomer).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"actor": "CUSTOMER"}, "")

		var got queries.SessionView
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &got)
		s.True(got.SelectionConfirmed)
	})

	s.Run("no proposal pending", func() {
		s.mockLanes.EXPECT().
			Confirm(gomock.Any(), "lane-1", session.ActorCustomer).
			Return(nil, session.ErrNoProposal)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"actor": "CUSTOMER"}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})
}

func (s *LaneHandlerTestSuite) TestAssign() {
	url := "/api/lanes/lane-1/session/assign"
	body := map[string]any{"resourceType": "STANDARD", "resourceNumber": 12}

	s.Run("success", func() {
		view := builder.NewSessionViewBuilder().WithAssignedResource("STANDARD", 12).Build()
		s.mockAssignments.EXPECT().
			Assign(gomock.Any(), "lane-1", session.AssignedResource{Type: session.RentalStandard, Number: 12}).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var got queries.SessionView
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &got)
		s.Require().NotNil(got.AssignedResourceNum)
		s.Equal(int32(12), *got.AssignedResourceNum)
	})

	s.Run("payment due carries the client precheck wording", func() {
		s.mockAssignments.EXPECT().
			Assign(gomock.Any(), "lane-1", gomock.Any()).
			Return(nil, session.ErrPaymentDue)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity,
			"Payment must be marked as paid before assignment.")
	})

	s.Run("race lost is a conflict", func() {
		s.mockAssignments.EXPECT().
			Assign(gomock.Any(), "lane-1", gomock.Any()).
			Return(nil, errs.ErrAssignmentRaceLost)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "Resource was claimed by another session")
	})
}

func (s *LaneHandlerTestSuite) TestCustomerResponse() {
	url := "/api/lanes/lane-1/session/assign/customer-response"

	s.Run("accept routes to CustomerAccept", func() {
		view := builder.NewSessionViewBuilder().WithAssignedResource("DELUXE", 30).Build()
		s.mockAssignments.EXPECT().CustomerAccept(gomock.Any(), "lane-1").Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"accept": true}, "")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &queries.SessionView{})
	})

	s.Run("decline routes to CustomerDecline", func() {
		view := builder.NewSessionViewBuilder().WithLockedSelection("STANDARD", "CUSTOMER").Build()
		s.mockAssignments.EXPECT().CustomerDecline(gomock.Any(), "lane-1").Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"accept": false}, "")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &queries.SessionView{})
	})

	s.Run("nothing pending", func() {
		s.mockAssignments.EXPECT().
			CustomerAccept(gomock.Any(), "lane-1").
			Return(nil, session.ErrNoConfirmationAsked)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"accept": true}, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "")
	})
}

func (s *LaneHandlerTestSuite) TestAcknowledgeAndSign() {
	s.Run("acknowledge", func() {
		view := builder.NewSessionViewBuilder().WithLockedSelection("STANDARD", "CUSTOMER").Build()
		s.mockLanes.EXPECT().Acknowledge(gomock.Any(), "lane-1").Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/api/lanes/lane-1/session/acknowledge-selection", nil, "")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &queries.SessionView{})
	})

	s.Run("sign", func() {
		view := builder.NewSessionViewBuilder().WithLockedSelection("STANDARD", "CUSTOMER").WithPaymentPaid().Build()
		s.mockLanes.EXPECT().Sign(gomock.Any(), "lane-1").Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/api/lanes/lane-1/session/signature", nil, "")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &queries.SessionView{})
	})
}

func (s *LaneHandlerTestSuite) TestReset() {
	url := "/api/lanes/lane-1/session"

	s.Run("success", func() {
		s.mockLanes.EXPECT().Reset(gomock.Any(), "lane-1").Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("idle lane is 404", func() {
		s.mockLanes.EXPECT().Reset(gomock.Any(), "lane-1").Return(errs.ErrSessionNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})
}
