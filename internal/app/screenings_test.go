package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kinohall/booking-system/api"
	"github.com/kinohall/booking-system/internal/domain"
	"github.com/kinohall/booking-system/internal/mocks"
	"github.com/kinohall/booking-system/internal/validator"
)

type ScreeningsTestSuite struct {
	suite.Suite
	app           *Application
	screeningRepo *mocks.MockScreeningRepo
	redisClient   *mocks.MockRedisClient
}

func (s *ScreeningsTestSuite) SetupTest() {
	s.screeningRepo = new(mocks.MockScreeningRepo)
	s.redisClient = new(mocks.MockRedisClient)

	s.app = newTestApplication(func(a *Application) {
		a.screeningRepo = s.screeningRepo
		a.redis = s.redisClient
	})
}

func TestScreeningsSuite(t *testing.T) {
	suite.Run(t, new(ScreeningsTestSuite))
}

func testScreeningFixture(id int) *domain.Screening {
	return &domain.Screening{
		ID:          id,
		HallID:      1,
		MovieID:     1,
		Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   domain.NewTimeOfDay(18, 0),
		BookedSeats: []string{},
		Movie: &domain.Movie{
			ID:       1,
			Title:    "Heat",
			Duration: 170,
		},
		Hall: &domain.Hall{
			ID:   1,
			Name: "Hall 1",
		},
	}
}

func (s *ScreeningsTestSuite) TestGetScreenings() {
	tests := []struct {
		name           string
		url            string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantCount      int
	}{
		{
			name: "should return the upcoming week starting from the local midnight",
			url:  "/screenings",
			setupMocks: func() {
				startOfDay := func() time.Time {
					now := time.Now()
					return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
				}
				s.screeningRepo.On("GetAll", mock.Anything,
					mock.MatchedBy(func(from time.Time) bool { return from.Equal(startOfDay()) }),
					mock.MatchedBy(func(to time.Time) bool { return to.Equal(startOfDay().Add(screeningListWindow)) })).
					Return([]*domain.Screening{testScreeningFixture(1), testScreeningFixture(2)}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name: "should filter by date",
			url:  "/screenings?date=2026-09-10",
			setupMocks: func() {
				day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
				s.screeningRepo.On("GetAll", mock.Anything, day, day).
					Return([]*domain.Screening{testScreeningFixture(1)}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:           "should fail when date is malformed",
			url:            "/screenings?date=10-09-2026",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "invalid date parameter, expected YYYY-MM-DD",
		},
		{
			name: "should fail when database error occurs",
			url:  "/screenings",
			setupMocks: func() {
				s.screeningRepo.On("GetAll", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("database connection error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.screeningRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := executeRequest(s.T(), s.app, http.MethodGet, tt.url, nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var response api.ScreeningListResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err)

				s.Len(response.Screenings, tt.wantCount)
			}

			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func (s *ScreeningsTestSuite) TestGetScreening() {
	s.Run("should return the screening with its end time", func() {
		s.SetupTest()
		s.screeningRepo.On("GetById", mock.Anything, 1).Return(testScreeningFixture(1), nil)

		w := executeRequest(s.T(), s.app, http.MethodGet, "/screenings/1", nil)

		s.Equal(http.StatusOK, w.Code)

		var response api.ScreeningResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		s.Require().NoError(err)

		s.Equal("2026-09-10", response.Screening.Date)
		s.Equal("18:00", response.Screening.StartTime)
		s.Equal("20:50", response.Screening.EndTime)
		s.Equal("Hall 1", response.Screening.Hall.Name)
	})

	s.Run("should fail when screening does not exist", func() {
		s.SetupTest()
		s.screeningRepo.On("GetById", mock.Anything, 999).Return(nil, domain.ErrRecordNotFound)

		w := executeRequest(s.T(), s.app, http.MethodGet, "/screenings/999", nil)

		s.Equal(http.StatusNotFound, w.Code)
		checkErrorResponse(s.T(), w, http.StatusNotFound, ErrNotFound)
	})
}

func (s *ScreeningsTestSuite) TestCreateScreening() {
	validInput := api.CreateScreeningRequest{
		MovieId:   1,
		HallId:    1,
		Date:      "2026-09-10",
		StartTime: "18:00",
	}

	tests := []struct {
		name           string
		input          api.CreateScreeningRequest
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:  "should create the screening",
			input: validInput,
			setupMocks: func() {
				s.screeningRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Screening"), mock.Anything).
					Run(func(args mock.Arguments) {
						screening := args.Get(1).(*domain.Screening)
						screening.ID = 1
					}).
					Return(nil)
				s.screeningRepo.On("GetById", mock.Anything, 1).Return(testScreeningFixture(1), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:  "should fail when the slot overlaps an existing screening",
			input: validInput,
			setupMocks: func() {
				s.screeningRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(domain.ScheduleConflictError{ScreeningID: 7})
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ScheduleConflictError{ScreeningID: 7}.Error(),
		},
		{
			name:  "should fail when the slot is in the past",
			input: validInput,
			setupMocks: func() {
				s.screeningRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(domain.ErrScreeningInPast)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "cannot schedule a screening in the past",
		},
		{
			name:  "should fail when the hall or movie does not exist",
			input: validInput,
			setupMocks: func() {
				s.screeningRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name: "should fail when start time is malformed",
			input: api.CreateScreeningRequest{
				MovieId:   1,
				HallId:    1,
				Date:      "2026-09-10",
				StartTime: "6pm",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: fmt.Sprintf(validator.ErrDatetime, "15:04"),
		},
		{
			name: "should fail when movie id is missing",
			input: api.CreateScreeningRequest{
				HallId:    1,
				Date:      "2026-09-10",
				StartTime: "18:00",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrRequired,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.screeningRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := executeRequest(s.T(), s.app, http.MethodPost, "/screenings", tt.input)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func (s *ScreeningsTestSuite) TestDeleteScreening() {
	tests := []struct {
		name           string
		screeningID    string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:        "should delete the screening and drop its cached seats",
			screeningID: "1",
			setupMocks: func() {
				s.screeningRepo.On("Delete", mock.Anything, 1).Return(nil)
				s.redisClient.On("Del", mock.Anything, []string{bookedSeatsKey(1)}).
					Return(redis.NewIntResult(1, nil))
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:        "should fail when the screening has bookings",
			screeningID: "1",
			setupMocks: func() {
				s.screeningRepo.On("Delete", mock.Anything, 1).Return(domain.ErrScreeningHasBookings)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrScreeningHasBookings.Error(),
		},
		{
			name:        "should fail when the screening does not exist",
			screeningID: "999",
			setupMocks: func() {
				s.screeningRepo.On("Delete", mock.Anything, 999).Return(domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.screeningRepo.AssertExpectations(s.T())
			defer s.redisClient.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := executeRequest(s.T(), s.app, http.MethodDelete, "/screenings/"+tt.screeningID, nil)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func (s *ScreeningsTestSuite) TestGetScreeningSeats() {
	tests := []struct {
		name           string
		screeningID    string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantSeats      []string
	}{
		{
			name:        "should serve from the cache when present",
			screeningID: "1",
			setupMocks: func() {
				s.redisClient.On("Get", mock.Anything, bookedSeatsKey(1)).
					Return(redis.NewStringResult(`["1-1","1-2"]`, nil))
			},
			wantStatus: http.StatusOK,
			wantSeats:  []string{"1-1", "1-2"},
		},
		{
			name:        "should fall back to the store on a cache miss and repopulate",
			screeningID: "1",
			setupMocks: func() {
				s.redisClient.On("Get", mock.Anything, bookedSeatsKey(1)).
					Return(redis.NewStringResult("", redis.Nil))
				s.screeningRepo.On("GetBookedSeats", mock.Anything, 1).Return([]string{"2-4"}, nil)
				s.redisClient.On("Set", mock.Anything, bookedSeatsKey(1), mock.Anything, bookedSeatsCacheTTL).
					Return(redis.NewStatusResult("OK", nil))
			},
			wantStatus: http.StatusOK,
			wantSeats:  []string{"2-4"},
		},
		{
			name:        "should fall back to the store when the cache is unavailable",
			screeningID: "1",
			setupMocks: func() {
				s.redisClient.On("Get", mock.Anything, bookedSeatsKey(1)).
					Return(redis.NewStringResult("", fmt.Errorf("connection refused")))
				s.screeningRepo.On("GetBookedSeats", mock.Anything, 1).Return([]string{}, nil)
				s.redisClient.On("Set", mock.Anything, bookedSeatsKey(1), mock.Anything, bookedSeatsCacheTTL).
					Return(redis.NewStatusResult("OK", nil))
			},
			wantStatus: http.StatusOK,
			wantSeats:  []string{},
		},
		{
			name:        "should fail when screening does not exist",
			screeningID: "999",
			setupMocks: func() {
				s.redisClient.On("Get", mock.Anything, bookedSeatsKey(999)).
					Return(redis.NewStringResult("", redis.Nil))
				s.screeningRepo.On("GetBookedSeats", mock.Anything, 999).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.screeningRepo.AssertExpectations(s.T())
			defer s.redisClient.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w := executeRequest(s.T(), s.app, http.MethodGet, "/screenings/"+tt.screeningID+"/seats", nil)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantSeats != nil {
				var response api.ScreeningSeatsResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err)

				s.Equal(tt.wantSeats, response.BookedSeats)
			}

			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}
