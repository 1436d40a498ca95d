package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/regionmap/internal/domain/representative"
	"github.com/turtacn/regionmap/internal/infrastructure/database/postgres"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/regionmap/pkg/errors"
)

var repColumns = []string{"id", "name", "position", "phone", "email", "region_ids", "activities"}

type RepresentativeRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo representative.Repository
}

func (s *RepresentativeRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)

	log := logging.NewNopLogger()
	s.repo = NewPostgresRepresentativeRepo(postgres.NewConnectionWithDB(s.db, log), log)
}

func (s *RepresentativeRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *RepresentativeRepoTestSuite) TestName() {
	s.Equal("postgres", s.repo.Name())
}

func (s *RepresentativeRepoTestSuite) TestFetch() {
	s.mock.ExpectQuery("SELECT id, name, .* FROM representatives ORDER BY id").
		WillReturnRows(sqlmock.NewRows(repColumns).
			AddRow(int64(1), "Иванов Иван Иванович", "Региональный менеджер", "+7 (495) 123-45-67",
				"ivanov@leadcore.ru", []byte("{ЦФО,СЗФО}"), []byte("{Лабораторное,Госпитальное}")).
			AddRow(int64(2), "Петров Петр Петрович", "", "", "", []byte("{RU-SPE}"), []byte("{}")))

	reps, err := s.repo.Fetch(context.Background())
	s.Require().NoError(err)
	s.Require().Len(reps, 2)
	s.Equal(representative.Associations{"ЦФО", "СЗФО"}, reps[0].RegionIDs)
	s.Equal([]string{"Лабораторное", "Госпитальное"}, reps[0].Activities)
	s.Equal(representative.Associations{"RU-SPE"}, reps[1].RegionIDs)
	s.Nil(reps[1].Activities)
}

func (s *RepresentativeRepoTestSuite) TestFetch_Empty() {
	s.mock.ExpectQuery("SELECT .* FROM representatives").WillReturnRows(sqlmock.NewRows(repColumns))

	reps, err := s.repo.Fetch(context.Background())
	s.NoError(err)
	s.NotNil(reps)
	s.Empty(reps)
}

func (s *RepresentativeRepoTestSuite) TestFetch_QueryError() {
	s.mock.ExpectQuery("SELECT .* FROM representatives").WillReturnError(errors.New("conn reset"))

	_, err := s.repo.Fetch(context.Background())
	s.True(apperrors.IsCode(err, apperrors.ErrCodeDatabaseError))
}

func (s *RepresentativeRepoTestSuite) TestGet_Found() {
	s.mock.ExpectQuery("SELECT .* FROM representatives WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(repColumns).
			AddRow(int64(5), "Михайлова Елена Викторовна", "Менеджер", "+7 (423) 777-88-99",
				"mikhailova@leadcore.ru", []byte("{ДФО}"), []byte(`{Лабораторное,"Эфферентные методы"}`)))

	rep, err := s.repo.Get(context.Background(), 5)
	s.Require().NoError(err)
	s.Equal(int64(5), rep.ID)
	s.Equal([]string{"Лабораторное", "Эфферентные методы"}, rep.Activities)
}

func (s *RepresentativeRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectQuery("SELECT .* FROM representatives WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(repColumns))

	_, err := s.repo.Get(context.Background(), 99)
	s.True(apperrors.IsCode(err, apperrors.CodeRepresentativeNotFound))
	s.True(apperrors.IsNotFound(err))
}

func (s *RepresentativeRepoTestSuite) TestCreate_AssignsID() {
	rep := &representative.Representative{
		Name:      "Новый Сотрудник",
		RegionIDs: representative.Associations{"RU-MOW", ""},
	}
	s.mock.ExpectQuery("INSERT INTO representatives \\(name, .*\\) VALUES .* RETURNING id").
		WithArgs("Новый Сотрудник", "", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))

	s.Require().NoError(s.repo.Create(context.Background(), rep))
	s.Equal(int64(6), rep.ID)
}

func (s *RepresentativeRepoTestSuite) TestCreate_NeverOverwrites() {
	err := s.repo.Create(context.Background(), &representative.Representative{ID: 3, Name: "x"})
	s.True(apperrors.IsValidation(err))

	err = s.repo.Create(context.Background(), &representative.Representative{})
	s.True(apperrors.IsValidation(err))
}

func (s *RepresentativeRepoTestSuite) TestCreate_UniqueViolation() {
	s.mock.ExpectQuery("INSERT INTO representatives").
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.repo.Create(context.Background(), &representative.Representative{Name: "x"})
	s.True(apperrors.IsCode(err, apperrors.ErrCodeConflict))
}

func (s *RepresentativeRepoTestSuite) TestUpdate() {
	rep := &representative.Representative{ID: 3, Name: "Сидорова Анна", RegionIDs: representative.Associations{"ПФО"}}
	s.mock.ExpectExec("UPDATE representatives SET .* WHERE id = \\$1").
		WithArgs(int64(3), "Сидорова Анна", "", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.Update(context.Background(), rep))
}

func (s *RepresentativeRepoTestSuite) TestUpdate_MissingRowIsNotInserted() {
	rep := &representative.Representative{ID: 100, Name: "Сидорова Анна"}
	s.mock.ExpectExec("UPDATE representatives SET .* WHERE id = \\$1").
		WithArgs(int64(100), "Сидорова Анна", "", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Update(context.Background(), rep)
	s.True(apperrors.IsCode(err, apperrors.CodeRepresentativeNotFound))

	s.True(apperrors.IsValidation(s.repo.Update(context.Background(), &representative.Representative{Name: "x"})))
}

func (s *RepresentativeRepoTestSuite) TestDelete() {
	s.mock.ExpectExec("DELETE FROM representatives WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.Delete(context.Background(), 3))

	s.mock.ExpectExec("DELETE FROM representatives WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := s.repo.Delete(context.Background(), 3)
	s.True(apperrors.IsNotFound(err))
}

func TestRepresentativeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RepresentativeRepoTestSuite))
}

//Personal.AI order the ending
