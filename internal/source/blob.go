package source

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xuri/excelize/v2"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

// BlobAPI is the slice of the S3 client the blob source needs.
type BlobAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// BlobSource fetches spreadsheet exports from a blob store bucket and
// decodes the first sheet into a frame. The first row is the header.
type BlobSource struct {
	api     BlobAPI
	bucket  string
	timeout time.Duration
}

// NewBlobSource wires a BlobSource. timeout bounds the storage call and the
// body read; <=0 means 30s.
func NewBlobSource(api BlobAPI, bucket string, timeout time.Duration) *BlobSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BlobSource{api: api, bucket: bucket, timeout: timeout}
}

func (s *BlobSource) Fetch(ctx context.Context, sel Selector) (*frame.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(sel.Key),
	})
	if err != nil {
		return nil, fault.Wrap(fault.SourceUnavailable, err, "fetch %s", sel)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fault.Wrap(fault.SourceUnavailable, err, "read %s", sel)
	}

	f, err := decodeSheet(raw)
	if err != nil {
		return nil, fault.Wrap(fault.DecodeFailure, err, "decode %s", sel)
	}
	if f.Len() == 0 {
		return nil, fault.New(fault.Empty, "dataset %s has no rows", sel)
	}
	log.Printf("source: fetched %d rows from %s", f.Len(), sel)
	return f, nil
}

// decodeSheet parses an xlsx payload: first sheet, first row as header.
// Spreadsheet cells arrive as strings; numeric-looking cells are tagged as
// numbers, blanks as missing.
func decodeSheet(raw []byte) (*frame.Frame, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	grid, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return frame.New(nil, nil), nil
	}

	header := make([]string, len(grid[0]))
	cols := make([]string, 0, len(header))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
		if header[i] != "" {
			cols = append(cols, header[i])
		}
	}

	rows := make([]frame.Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(frame.Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i >= len(cells) {
				row[col] = frame.Missing
				continue
			}
			row[col] = parseCell(cells[i])
		}
		rows = append(rows, row)
	}
	return frame.New(cols, rows), nil
}

func parseCell(s string) frame.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return frame.Missing
	}
	if v, ok := frame.String(s).Float(); ok {
		return frame.Number(v)
	}
	return frame.String(s)
}
