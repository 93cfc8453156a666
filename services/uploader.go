package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader is the media store behind photo uploads and deletes
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (string, error)
	Destroy(ctx context.Context, url string) error
}

// CloudinaryUploader implements Uploader against Cloudinary
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

// Upload stores a file and returns its secure URL, the stable identifier used
// for later deletion
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// Destroy removes a previously uploaded file by its secure URL
func (u *CloudinaryUploader) Destroy(ctx context.Context, url string) error {
	publicID, err := publicIDFromURL(url)
	if err != nil {
		return err
	}

	resp, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	// A retried destroy can hit an id that is already gone; that is the
	// desired end state, not a failure.
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy failed: %s", resp.Result)
	}
	return nil
}

// publicIDFromURL derives the public id from a secure URL:
// .../upload/v123456/folder/name.jpg -> folder/name
func publicIDFromURL(url string) (string, error) {
	_, after, found := strings.Cut(url, "/upload/")
	if !found {
		return "", fmt.Errorf("not a cloudinary delivery URL: %s", url)
	}

	segments := strings.Split(after, "/")
	if len(segments) > 1 && strings.HasPrefix(segments[0], "v") {
		segments = segments[1:]
	}

	publicID := strings.Join(segments, "/")
	if idx := strings.LastIndex(publicID, "."); idx > 0 {
		publicID = publicID[:idx]
	}
	if publicID == "" {
		return "", fmt.Errorf("cannot derive public id from URL: %s", url)
	}
	return publicID, nil
}
