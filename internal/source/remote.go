package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/frame"
)

// RemoteSource fetches datasets from the external analytics service: a POST
// with no request body returning a JSON array of row objects. Rows are
// treated as opaque; numbers keep full precision via json.Number before the
// tagged-value conversion.
type RemoteSource struct {
	client  *HTTPClient
	timeout time.Duration
}

// NewRemoteSource wires a RemoteSource over the retrying client. timeout
// bounds the whole fetch including retries; <=0 means 30s.
func NewRemoteSource(client *HTTPClient, timeout time.Duration) *RemoteSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteSource{client: client, timeout: timeout}
}

func (s *RemoteSource) Fetch(ctx context.Context, sel Selector) (*frame.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Post(ctx, sel.Endpoint)
	if err != nil {
		return nil, fault.Wrap(fault.SourceUnavailable, err, "fetch %s", sel)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fault.New(fault.SourceUnavailable, "fetch %s: status %d", sel, resp.StatusCode)
	}

	f, err := decodeRows(resp.Body)
	if err != nil {
		return nil, fault.Wrap(fault.DecodeFailure, err, "decode %s", sel)
	}
	if f.Len() == 0 {
		return nil, fault.New(fault.Empty, "dataset %s has no rows", sel)
	}
	log.Printf("source: fetched %d rows from %s", f.Len(), sel)
	return f, nil
}

// decodeRows decodes a top-level JSON array of objects into a frame,
// walking the token stream so the column order matches the first row's key
// order (the blood-sugar dataset relies on month columns staying in
// sequence). Cells outside the tag set (nested objects, arrays) become
// missing rather than failing the whole dataset.
func decodeRows(r io.Reader) (*frame.Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var cols []string
	seen := map[string]bool{}
	var rows []frame.Row
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		row := frame.Row{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyTok)
			}
			v, err := decodeCell(dec)
			if err != nil {
				return nil, err
			}
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
			row[key] = v
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, err
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return frame.New(cols, rows), nil
}

// decodeCell reads one value token, consuming (and discarding) nested
// structures, which map to missing.
func decodeCell(dec *json.Decoder) (frame.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return frame.Missing, err
	}
	switch t := tok.(type) {
	case json.Delim:
		// Nested array/object: skip to its matching close.
		depth := 1
		for depth > 0 {
			inner, err := dec.Token()
			if err != nil {
				return frame.Missing, err
			}
			if d, ok := inner.(json.Delim); ok {
				switch d {
				case '[', '{':
					depth++
				case ']', '}':
					depth--
				}
			}
		}
		return frame.Missing, nil
	default:
		return frame.FromAny(t), nil
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
