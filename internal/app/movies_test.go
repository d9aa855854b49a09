package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cinegrupo/cinema-ticketing-system/api"
	"github.com/cinegrupo/cinema-ticketing-system/internal/domain"
	"github.com/cinegrupo/cinema-ticketing-system/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MoviesTestSuite struct {
	suite.Suite
	app       *Application
	movieRepo *mocks.MockMovieRepo
}

func (s *MoviesTestSuite) SetupTest() {
	s.movieRepo = new(mocks.MockMovieRepo)
	s.app = newTestApplication(func(a *Application) {
		a.movieRepo = s.movieRepo
	})
}

func TestMoviesSuite(t *testing.T) {
	suite.Run(t, new(MoviesTestSuite))
}

func (s *MoviesTestSuite) TestCreateMovie() {
	tests := []struct {
		name           string
		req            api.CreateMovieRequest
		setupMock      func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "missing title",
			req: api.CreateMovieRequest{
				Description: "A hacker discovers reality is a simulation.",
				ReleaseDate: "1999-03-31",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "is required",
		},
		{
			name: "malformed release date",
			req: api.CreateMovieRequest{
				Title:       "The Matrix",
				Description: "A hacker discovers reality is a simulation.",
				ReleaseDate: "31/03/1999",
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be a date in 2006-01-02 format",
		},
		{
			name: "successful creation",
			req: api.CreateMovieRequest{
				Title:       "The Matrix",
				Description: "A hacker discovers reality is a simulation.",
				ReleaseDate: "1999-03-31",
				PosterURL:   "https://img.test/matrix.jpg",
			},
			setupMock: func() {
				s.movieRepo.On("Create", mock.Anything, mock.MatchedBy(func(movie *domain.Movie) bool {
					return movie.Title == "The Matrix" &&
						movie.ReleaseDate.Format(dateLayout) == "1999-03-31"
				})).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.movieRepo.AssertExpectations(s.T())

			if tt.setupMock != nil {
				tt.setupMock()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/movies", tt.req)

			s.app.CreateMovie(w, r)

			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *MoviesTestSuite) TestGetMovie() {
	s.movieRepo.On("GetById", mock.Anything, 12).Return(&domain.Movie{
		ID:          12,
		Title:       "The Matrix",
		Description: "A hacker discovers reality is a simulation.",
	}, nil)

	w, r := executeRequest(s.T(), http.MethodGet, "/movies/12", nil)
	r = withURLParam(r, "id", "12")

	s.app.GetMovie(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.Movie
	err := json.NewDecoder(w.Body).Decode(&resp)
	s.Require().NoError(err)
	s.Equal(12, resp.Id)
	s.Equal("The Matrix", resp.Title)

	s.movieRepo.AssertExpectations(s.T())
}

func (s *MoviesTestSuite) TestGetMovieNotFound() {
	s.movieRepo.On("GetById", mock.Anything, 12).Return(nil, domain.ErrRecordNotFound)

	w, r := executeRequest(s.T(), http.MethodGet, "/movies/12", nil)
	r = withURLParam(r, "id", "12")

	s.app.GetMovie(w, r)

	s.Equal(http.StatusNotFound, w.Code)

	s.movieRepo.AssertExpectations(s.T())
}

func (s *MoviesTestSuite) TestUpdateMovie() {
	s.movieRepo.On("GetById", mock.Anything, 12).Return(&domain.Movie{
		ID:          12,
		Title:       "The Matrix",
		Description: "A hacker discovers reality is a simulation.",
	}, nil)
	s.movieRepo.On("Update", mock.Anything, mock.MatchedBy(func(movie *domain.Movie) bool {
		return movie.Title == "The Matrix Reloaded" &&
			movie.Description == "A hacker discovers reality is a simulation."
	})).Return(nil)

	req := api.UpdateMovieRequest{Title: ptr("The Matrix Reloaded")}

	w, r := executeRequest(s.T(), http.MethodPut, "/movies/12", req)
	r = withURLParam(r, "id", "12")

	s.app.UpdateMovie(w, r)

	s.Equal(http.StatusOK, w.Code)

	s.movieRepo.AssertExpectations(s.T())
}
