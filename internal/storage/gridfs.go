package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	app_error "github.com/Matches1st/Cord-Disc-Chat/internal/errors"
)

// ProgressFunc receives bytes transferred so far and the total size.
// Total may be reported as 0 when the caller does not know it up front.
type ProgressFunc func(transferred, total int64)

// Store is the object storage behind file sends: a GridFS bucket plus the
// public base URL its objects are retrieved under.
type Store struct {
	bucket  *mongo.GridFSBucket
	baseURL string
}

func NewStore(db *mongo.Database, baseURL string) *Store {
	return &Store{
		bucket:  db.GridFSBucket(),
		baseURL: baseURL,
	}
}

// Upload streams the file into the bucket under a time-prefixed name so
// two uploads of the same filename never collide. On any failure the
// partially written object is aborted and no URL is returned.
func (s *Store) Upload(ctx context.Context, filename string, size int64, src io.Reader, onProgress ProgressFunc) (string, string, *app_error.AppError) {
	fileID := bson.NewObjectID()
	key := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filename)

	stream, err := s.bucket.OpenUploadStreamWithID(ctx, fileID, key)
	if err != nil {
		return "", "", app_error.Upload("failed to open upload stream")
	}

	var transferred int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := stream.Write(buf[:n]); writeErr != nil {
				abortUpload(stream)
				return "", "", app_error.Upload("failed to write file data")
			}
			transferred += int64(n)
			if onProgress != nil {
				onProgress(transferred, size)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			abortUpload(stream)
			return "", "", app_error.Upload("failed to read file data")
		}
	}

	if err := stream.Close(); err != nil {
		return "", "", app_error.Upload("failed to finalize upload")
	}

	return fileID.Hex(), s.URL(fileID.Hex()), nil
}

func abortUpload(stream *mongo.GridFSUploadStream) {
	if err := stream.Abort(); err != nil {
		log.Error().Err(err).Msg("failed to abort upload stream")
	}
}

// Download streams the stored object to w.
func (s *Store) Download(ctx context.Context, fileID string, w io.Writer) *app_error.AppError {
	objID, err := bson.ObjectIDFromHex(fileID)
	if err != nil {
		return app_error.Validation("invalid file id", "file-id")
	}

	if _, err := s.bucket.DownloadToStream(ctx, objID, w); err != nil {
		if err == mongo.ErrFileNotFound {
			return app_error.NotFound("file not found", "file-id")
		}
		return app_error.Internal("failed to download file", "gridfs")
	}
	return nil
}

// URL is the public retrieval address for a stored object.
func (s *Store) URL(fileID string) string {
	return fmt.Sprintf("%s/api/v1/files/%s", s.baseURL, fileID)
}
