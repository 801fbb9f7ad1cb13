package model

import "github.com/google/uuid"

// IsBoardAdmin reports whether userID is one of the board's admins.
func IsBoardAdmin(board *Board, userID uuid.UUID) bool {
	if board == nil {
		return false
	}
	return ContainsID(board.Admins, userID)
}

// IsBoardMember reports whether userID is an admin or a user of the board.
func IsBoardMember(board *Board, userID uuid.UUID) bool {
	if board == nil {
		return false
	}
	return ContainsID(board.Admins, userID) || ContainsID(board.Users, userID)
}

func ContainsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID returns ids without any occurrence of id.
func RemoveID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
