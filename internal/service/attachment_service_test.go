package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-dashboard/internal/models"
)

// gatedUpload blocks its read until the gate is released.
func gatedUpload(name, body string, gate <-chan struct{}, done *int32) Upload {
	return Upload{
		Name:        name,
		ContentType: "text/plain",
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			<-gate
			atomic.AddInt32(done, 1)
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestEncodeAllJoinsBeforeReturning(t *testing.T) {
	svc := NewAttachmentService(0, nil)
	gates := []chan struct{}{make(chan struct{}), make(chan struct{}), make(chan struct{})}
	var done int32
	uploads := []Upload{
		gatedUpload("a.txt", "alpha", gates[0], &done),
		gatedUpload("b.txt", "bravo", gates[1], &done),
		gatedUpload("c.txt", "charlie", gates[2], &done),
	}

	var saves int32
	result := make(chan []models.FileAttachment, 1)
	go func() {
		files, err := svc.EncodeAll(context.Background(), uploads)
		assert.NoError(t, err)
		// The dependent save runs here, once, after the join.
		atomic.AddInt32(&saves, 1)
		result <- files
	}()

	// Release reads out of order; nothing may complete early.
	close(gates[2])
	close(gates[0])
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&saves))

	close(gates[1])
	files := <-result

	assert.Equal(t, int32(3), atomic.LoadInt32(&done))
	assert.Equal(t, int32(1), atomic.LoadInt32(&saves))
	require.Len(t, files, 3)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.txt", files[1].Name)
	assert.Equal(t, "c.txt", files[2].Name)
	assert.Equal(t, "data:text/plain;base64,YWxwaGE=", files[0].Content)
}

func TestEncodeAllAbortsOnReadFailure(t *testing.T) {
	svc := NewAttachmentService(0, nil)
	ok := Upload{Name: "ok.txt", Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("fine")), nil
	}}
	bad := Upload{Name: "bad.txt", Open: func() (io.ReadCloser, error) {
		return nil, errors.New("disk error")
	}}

	files, err := svc.EncodeAll(context.Background(), []Upload{ok, bad})
	require.Error(t, err)
	assert.Nil(t, files)
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestEncodeAllEnforcesSizeLimit(t *testing.T) {
	svc := NewAttachmentService(4, nil)
	up := Upload{Name: "big.txt", Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("more than four")), nil
	}}

	_, err := svc.EncodeAll(context.Background(), []Upload{up})
	require.Error(t, err)
}

func TestEncodeSniffsUnknownType(t *testing.T) {
	svc := NewAttachmentService(0, nil)
	up := Upload{Name: "doc", ContentType: "application/octet-stream", Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("%PDF-1.4\n")), nil
	}}

	files, err := svc.EncodeAll(context.Background(), []Upload{up})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", files[0].Type)
	assert.True(t, strings.HasPrefix(files[0].Content, "data:application/pdf;base64,"))
}

func TestDecodeAttachment(t *testing.T) {
	svc := NewAttachmentService(0, nil)

	decoded, err := svc.Decode(models.FileAttachment{Name: "notes.txt", Content: "data:text/plain;base64,aGk="})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", decoded.ContentType)
	assert.Equal(t, []byte("hi"), decoded.Data)

	_, err = svc.Decode(models.FileAttachment{Content: "garbage"})
	require.Error(t, err)
}
