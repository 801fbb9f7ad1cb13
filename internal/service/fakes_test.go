package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// In-memory repositories. They copy on the way in and out so services cannot
// mutate stored rows without calling Update.

type fakeUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.User
	err  error
}

func newFakeUsers(users ...model.User) *fakeUsers {
	f := &fakeUsers{rows: make(map[uuid.UUID]model.User)}
	for _, u := range users {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	return f.Create(context.Background(), u)
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) find(match func(model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.rows {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return f.find(func(u model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := f.rows[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.rows))
	for _, u := range f.rows {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) get(id uuid.UUID) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

type fakeBoards struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]model.Board
	order   []uuid.UUID
	updates int
}

func newFakeBoards(boards ...model.Board) *fakeBoards {
	f := &fakeBoards{rows: make(map[uuid.UUID]model.Board)}
	for _, b := range boards {
		f.put(b)
	}
	return f
}

func cloneBoard(b model.Board) model.Board {
	b.Admins = append([]uuid.UUID(nil), b.Admins...)
	b.Users = append([]uuid.UUID(nil), b.Users...)
	return b
}

func (f *fakeBoards) put(b model.Board) {
	if _, ok := f.rows[b.ID]; !ok {
		f.order = append(f.order, b.ID)
	}
	f.rows[b.ID] = cloneBoard(b)
}

func (f *fakeBoards) Create(_ context.Context, b *model.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(*b)
	return nil
}

func (f *fakeBoards) Update(_ context.Context, b *model.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.put(*b)
	return nil
}

func (f *fakeBoards) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	b = cloneBoard(b)
	return &b, nil
}

func (f *fakeBoards) FindByTitle(_ context.Context, title string) (*model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if strings.EqualFold(b.Title, title) {
			b = cloneBoard(b)
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBoards) List(_ context.Context) ([]model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Board, 0, len(f.order))
	for _, id := range f.order {
		if b, ok := f.rows[id]; ok {
			out = append(out, cloneBoard(b))
		}
	}
	return out, nil
}

func (f *fakeBoards) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrBoardNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBoards) get(id uuid.UUID) (model.Board, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	return cloneBoard(b), ok
}

type fakeNotes struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]model.Note
	deleteErr error
}

func newFakeNotes(notes ...model.Note) *fakeNotes {
	f := &fakeNotes{rows: make(map[uuid.UUID]model.Note)}
	for _, n := range notes {
		f.rows[n.ID] = n
	}
	return f
}

func (f *fakeNotes) Create(_ context.Context, n *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *n
	c.Assignees = append([]uuid.UUID(nil), n.Assignees...)
	f.rows[n.ID] = c
	return nil
}

func (f *fakeNotes) Update(ctx context.Context, n *model.Note) error {
	return f.Create(ctx, n)
}

func (f *fakeNotes) GetByID(_ context.Context, id uuid.UUID) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	n.Assignees = append([]uuid.UUID(nil), n.Assignees...)
	return &n, nil
}

func (f *fakeNotes) FindByTitle(_ context.Context, boardID uuid.UUID, title string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.BoardID == boardID && strings.EqualFold(n.Title, title) {
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotes) List(_ context.Context, boardID *uuid.UUID) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Note
	for _, n := range f.rows {
		if boardID == nil || n.BoardID == *boardID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotes) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeNotes) DeleteByBoard(_ context.Context, boardID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var n int64
	for id, note := range f.rows {
		if note.BoardID == boardID {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

type sentMail struct {
	to, username, token string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, username, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, username: username, token: token})
	return nil
}

var errBoom = errors.New("boom")

func newUser(username string) model.User {
	return model.User{ID: uuid.New(), Username: username, Email: username + "@example.com"}
}
