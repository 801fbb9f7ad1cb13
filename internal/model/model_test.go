package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBoardAdminAndMember(t *testing.T) {
	admin, user, stranger := uuid.New(), uuid.New(), uuid.New()
	board := &Board{Admins: []uuid.UUID{admin}, Users: []uuid.UUID{user}}

	assert.True(t, IsBoardAdmin(board, admin))
	assert.False(t, IsBoardAdmin(board, user))
	assert.False(t, IsBoardAdmin(board, stranger))

	assert.True(t, IsBoardMember(board, admin))
	assert.True(t, IsBoardMember(board, user))
	assert.False(t, IsBoardMember(board, stranger))

	assert.False(t, IsBoardAdmin(nil, admin))
	assert.False(t, IsBoardMember(nil, admin))
}

func TestValidateNoteStatus(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	before := start.Add(-time.Hour)

	tests := []struct {
		name    string
		status  NoteStatus
		start   *time.Time
		end     *time.Time
		wantErr bool
	}{
		{"todo without dates", StatusToDo, nil, nil, false},
		{"todo with start", StatusToDo, &start, nil, true},
		{"todo with end", StatusToDo, nil, &end, true},
		{"in progress with start", StatusInProgress, &start, nil, false},
		{"in progress without start", StatusInProgress, nil, nil, true},
		{"in progress with end", StatusInProgress, &start, &end, true},
		{"testing with start", StatusTesting, &start, nil, false},
		{"testing without start", StatusTesting, nil, nil, true},
		{"done with both", StatusDone, &start, &end, false},
		{"done without end", StatusDone, &start, nil, true},
		{"done without start", StatusDone, nil, &end, true},
		{"done end before start", StatusDone, &start, &before, true},
		{"unknown status", NoteStatus("Blocked"), nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoteStatus(tt.status, tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseNoteStatus(t *testing.T) {
	st, err := ParseNoteStatus("In-Progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	_, err = ParseNoteStatus("in progress")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBoardMembersRoundTrip(t *testing.T) {
	a, u := uuid.New(), uuid.New()
	board := &Board{ID: uuid.New(), Admins: []uuid.UUID{a}, Users: []uuid.UUID{u}}

	members := board.Members()
	require.Len(t, members, 2)
	assert.Equal(t, RoleAdmin, members[0].Role)
	assert.Equal(t, board.ID, members[1].BoardID)

	other := &Board{}
	other.SetMembers(members)
	assert.Equal(t, []uuid.UUID{a}, other.Admins)
	assert.Equal(t, []uuid.UUID{u}, other.Users)
}

func TestOptionalTime_Unmarshal(t *testing.T) {
	var body struct {
		StartDate OptionalTime `json:"startDate"`
		EndDate   OptionalTime `json:"endDate"`
		Other     OptionalTime `json:"other"`
	}
	err := json.Unmarshal([]byte(`{"startDate":"2024-03-01T10:00:00Z","endDate":null}`), &body)
	require.NoError(t, err)

	assert.True(t, body.StartDate.Set)
	require.NotNil(t, body.StartDate.Value)
	assert.Equal(t, 2024, body.StartDate.Value.Year())

	assert.True(t, body.EndDate.Set)
	assert.Nil(t, body.EndDate.Value)

	assert.False(t, body.Other.Set)

	current := time.Now()
	assert.Equal(t, &current, body.Other.Or(&current))
	assert.Nil(t, body.EndDate.Or(&current))
}
