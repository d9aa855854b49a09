package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinegrupo/cinema-ticketing-system/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ArchiverTestSuite struct {
	suite.Suite
	app          *Application
	showtimeRepo *mocks.MockShowtimeRepo
}

func (s *ArchiverTestSuite) SetupTest() {
	s.showtimeRepo = new(mocks.MockShowtimeRepo)
	s.app = newTestApplication(func(a *Application) {
		a.showtimeRepo = s.showtimeRepo
	})
}

func TestArchiverSuite(t *testing.T) {
	suite.Run(t, new(ArchiverTestSuite))
}

func (s *ArchiverTestSuite) TestArchivePastShowtimesUsesMidnightCutoff() {
	s.showtimeRepo.On("ArchivePast", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		h, m, sec := cutoff.Clock()
		return h == 0 && m == 0 && sec == 0 && !cutoff.After(time.Now())
	})).Return(4, nil)

	s.app.ArchivePastShowtimes(context.Background())

	s.showtimeRepo.AssertExpectations(s.T())
}

func (s *ArchiverTestSuite) TestArchivePastShowtimesSurvivesRepositoryError() {
	s.showtimeRepo.On("ArchivePast", mock.Anything, mock.Anything).
		Return(0, errors.New("connection refused"))

	s.app.ArchivePastShowtimes(context.Background())

	s.showtimeRepo.AssertExpectations(s.T())
}
