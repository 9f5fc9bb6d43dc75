package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/domain"
)

// isoMillis matches the browser's Date.prototype.toISOString output.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// maxEpochMillis is the largest magnitude a browser Date can hold.
const maxEpochMillis = 8.64e15

var errTimestampRange = errors.New("createdAt: out of range")

// timestamp is a createdAt value as stored in the slot. It decodes ISO-8601
// strings, epoch milliseconds, and epoch milliseconds written as a string.
type timestamp time.Time

func (ts timestamp) MarshalJSON() ([]byte, error) {
	s := time.Time(ts).UTC().Format(isoMillis)
	return json.Marshal(s)
}

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = timestamp(time.Time{})
		return nil
	}

	if data[0] != '"' {
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
		if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
			return errTimestampRange
		}
		return ts.set(time.UnixMilli(int64(ms)))
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms > maxEpochMillis || ms < -maxEpochMillis {
			return errTimestampRange
		}
		return ts.set(time.UnixMilli(ms))
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	return ts.set(parsed)
}

// set stores t if MarshalJSON can write it back in a form UnmarshalJSON
// accepts, which needs a four-digit year.
func (ts *timestamp) set(t time.Time) error {
	if year := t.UTC().Year(); year < 0 || year > 9999 {
		return errTimestampRange
	}
	*ts = timestamp(t)
	return nil
}

// record is one element of the persisted JSON array.
type record struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt timestamp `json:"createdAt"`
}

func encodeTasks(tasks []domain.Task) ([]byte, error) {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: timestamp(t.CreatedAt),
		}
	}
	return json.Marshal(records)
}

// decodeTasks parses a slot document. Records that fail to decode or have
// blank text are dropped and counted in skipped; only a document that is not
// an array is an error.
func decodeTasks(data []byte) (tasks []domain.Task, skipped int, err error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, err
	}

	tasks = make([]domain.Task, 0, len(raws))
	for _, raw := range raws {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped++
			continue
		}
		text := strings.TrimSpace(r.Text)
		if text == "" {
			skipped++
			continue
		}
		tasks = append(tasks, domain.Task{
			ID:        r.ID,
			Text:      text,
			Completed: r.Completed,
			CreatedAt: time.Time(r.CreatedAt),
		})
	}
	return tasks, skipped, nil
}
