// Package ingest loads candidate batches handed over by the source
// ingestor. The engine never fetches feeds itself; batches arrive as JSON
// on the local filesystem or in S3.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rajconnects/rss-to-linkedin/types"
)

// Load reads a candidate batch from source, which is either a local file
// path or an s3://bucket/key URI.
func Load(ctx context.Context, source string) (*types.CandidateBatch, error) {
	var (
		reader io.ReadCloser
		err    error
	)
	if strings.HasPrefix(source, "s3://") {
		bucket, key, splitErr := splitS3URI(source)
		if splitErr != nil {
			return nil, splitErr
		}
		client, s3Err := NewS3(ctx, S3Config{
			Region:       os.Getenv("S3_REGION"),
			Profile:      os.Getenv("S3_PROFILE"),
			UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
		})
		if s3Err != nil {
			return nil, fmt.Errorf("init s3 client: %w", s3Err)
		}
		reader, err = client.Get(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
	} else {
		reader, err = os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
	}
	defer reader.Close()

	return Decode(reader)
}

// Decode parses a candidate batch and fills derived fields: missing item
// ids and missing fetched_at timestamps.
func Decode(r io.Reader) (*types.CandidateBatch, error) {
	var batch types.CandidateBatch
	if err := json.NewDecoder(r).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode candidate batch: %w", err)
	}

	now := time.Now()
	valid := batch.Items[:0]
	for _, item := range batch.Items {
		if item == nil || (item.URL == "" && item.Title == "") {
			continue
		}
		if item.ID == "" {
			item.ID = types.GenerateID(item.URL, item.Title)
		}
		if item.FetchedAt.IsZero() {
			if batch.FetchedAt.IsZero() {
				item.FetchedAt = now
			} else {
				item.FetchedAt = batch.FetchedAt
			}
		}
		valid = append(valid, item)
	}
	batch.Items = valid
	batch.ItemCount = len(valid)
	return &batch, nil
}
