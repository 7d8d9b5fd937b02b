package handler

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-dashboard/internal/service"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
)

const filesField = "files"

// detached keeps upstream calls alive after the browser goes away so a late
// response still lands in the snapshot.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// bindForm binds JSON or form bodies into dest and collects multipart files.
func bindForm(c *gin.Context, dest interface{}) ([]service.Upload, error) {
	if err := c.ShouldBind(dest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart body")
	}
	return uploadsFrom(form.File[filesField]), nil
}

func uploadsFrom(headers []*multipart.FileHeader) []service.Upload {
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		uploads = append(uploads, service.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				return f, nil
			},
		})
	}
	return uploads
}

func indexParam(c *gin.Context, name string) (int, error) {
	idx, err := strconv.Atoi(c.Param(name))
	if err != nil || idx < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a non-negative integer")
	}
	return idx, nil
}
