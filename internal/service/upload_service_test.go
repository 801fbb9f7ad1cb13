package service_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperr"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

type fakeStore struct {
	name, contentType string
	data              []byte
	err               error
}

func (f *fakeStore) Save(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.name, f.contentType, f.data = name, contentType, data
	return "/uploads/" + name, nil
}

// smallest valid PNG header the sniffer recognises
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func TestUploadService_UploadUserImage(t *testing.T) {
	alice := newUser("alice")
	users := newFakeUsers(alice)
	store := &fakeStore{}
	svc := service.NewUploadService(users, store, 1024, logging.Discard())
	ctx := context.Background()

	url, err := svc.UploadUserImage(ctx, alice.ID, bytes.NewReader(pngBytes))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/"+alice.ID.String()+".png", url)
	assert.Equal(t, "image/png", store.contentType)
	assert.Equal(t, pngBytes, store.data)
	assert.Equal(t, url, users.get(alice.ID).Image)
}

func TestUploadService_Rejects(t *testing.T) {
	alice := newUser("alice")
	svc := service.NewUploadService(newFakeUsers(alice), &fakeStore{}, 1024, logging.Discard())
	ctx := context.Background()

	tests := []struct {
		name string
		body io.Reader
		msg  string
		kind apperr.Kind
	}{
		{"empty", strings.NewReader(""), "No file uploaded", apperr.KindBadRequest},
		{"not an image", strings.NewReader("just some plain text"), "Please upload an image", apperr.KindBadRequest},
		{"too large", bytes.NewReader(append(pngBytes, make([]byte, 2048)...)), "Please upload image smaller than 1KB", apperr.KindBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadUserImage(ctx, alice.ID, tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.EqualError(t, err, tt.msg)
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UploadUserImage(ctx, uuid.New(), bytes.NewReader(pngBytes))
		assert.ErrorIs(t, err, apperr.NotFound(""))
	})

	t.Run("store failure", func(t *testing.T) {
		failing := service.NewUploadService(newFakeUsers(alice), &fakeStore{err: errBoom}, 1024, logging.Discard())
		_, err := failing.UploadUserImage(ctx, alice.ID, bytes.NewReader(pngBytes))
		assert.ErrorIs(t, err, errBoom)
	})
}
