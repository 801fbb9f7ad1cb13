package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	boardColumns  = []string{"id", "title", "description", "completed", "private", "hashed_password"}
	memberColumns = []string{"board_id", "user_id", "role"}
)

func TestBoardRepository_Create_WritesMembers(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	board := &model.Board{
		ID:          uuid.New(),
		Title:       "Roadmap",
		Description: "Quarter plan",
		Admins:      []uuid.UUID{uuid.New()},
		Users:       []uuid.UUID{uuid.New(), uuid.New()},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "boards"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "board_members"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), board)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Create_RollsBackOnMemberError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	board := &model.Board{ID: uuid.New(), Title: "Roadmap", Description: "Quarter plan", Admins: []uuid.UUID{uuid.New()}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "boards"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "board_members"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), board)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Create_DuplicateTitleIsConflict(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	board := &model.Board{ID: uuid.New(), Title: "Roadmap", Description: "Quarter plan", Admins: []uuid.UUID{uuid.New()}}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "boards"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "boards_title_lower_idx"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), board)

	assert.ErrorIs(t, err, apperr.Conflict(""))
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Board with title Roadmap already exist", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetByID_LoadsMembers(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	boardID, admin, member := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(boardColumns).
			AddRow(boardID.String(), "Roadmap", "Quarter plan", false, false, ""))
	mock.ExpectQuery(`SELECT \* FROM "board_members" WHERE board_id = \$1`).
		WillReturnRows(sqlmock.NewRows(memberColumns).
			AddRow(boardID.String(), admin.String(), model.RoleAdmin).
			AddRow(boardID.String(), member.String(), model.RoleUser))

	board, err := repo.GetByID(context.Background(), boardID)

	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Equal(t, "Roadmap", board.Title)
	assert.Equal(t, []uuid.UUID{admin}, board.Admins)
	assert.Equal(t, []uuid.UUID{member}, board.Users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(boardColumns))

	board, err := repo.GetByID(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, board)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_List_GroupsMembersByBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	b1, b2, u1, u2 := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "boards" ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(boardColumns).
			AddRow(b1.String(), "One", "first board", false, false, "").
			AddRow(b2.String(), "Two", "second board", true, true, "hash"))
	mock.ExpectQuery(`SELECT \* FROM "board_members" WHERE board_id IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows(memberColumns).
			AddRow(b1.String(), u1.String(), model.RoleAdmin).
			AddRow(b2.String(), u2.String(), model.RoleAdmin).
			AddRow(b2.String(), u1.String(), model.RoleUser))

	boards, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, []uuid.UUID{u1}, boards[0].Admins)
	assert.Empty(t, boards[0].Users)
	assert.Equal(t, []uuid.UUID{u2}, boards[1].Admins)
	assert.Equal(t, []uuid.UUID{u1}, boards[1].Users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Update_RewritesMembers(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	board := &model.Board{ID: uuid.New(), Title: "Roadmap", Description: "Quarter plan", Admins: []uuid.UUID{uuid.New()}}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "board_members" WHERE board_id = \$1`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "board_members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), board)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewBoardRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "boards" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewBoardRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "boards" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, repository.ErrBoardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
