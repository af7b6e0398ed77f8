// Package persistence handles append-only storage of the session
// transcript: every routed command and its result, one JSON line each.
// This is session history for review and debugging, not a save-file
// format.
package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/suderio/fable/internal/engine"
)

// Record is one transcript line.
type Record struct {
	Session string               `json:"session"`
	Turn    int                  `json:"turn"`
	Input   string               `json:"input"`
	Result  engine.CommandResult `json:"result"`
	At      time.Time            `json:"at"`
}

// Transcript handles append-only storing of session records.
type Transcript struct {
	file *os.File
}

// NewTranscript opens or creates the file at path for appending lines.
func NewTranscript(path string) (*Transcript, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript file: %w", err)
	}
	return &Transcript{file: file}, nil
}

// Append marshals one record to the JSONL log.
func (t *Transcript) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := t.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return t.file.Sync()
}

// Load replays all stored records in order.
func (t *Transcript) Load() ([]Record, error) {
	if _, err := t.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var records []Record
	scanner := bufio.NewScanner(t.file)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode transcript line: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Close handles safe shutdown.
func (t *Transcript) Close() error {
	return t.file.Close()
}
