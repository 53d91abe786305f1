package simulation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EngagementLog appends simulated engagements to a JSONL file so a run
// can be replayed into the analytics engine later.
type EngagementLog struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// OpenEngagementLog opens (or creates) a JSONL log for appending.
func OpenEngagementLog(path string) (*EngagementLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open engagement log: %w", err)
	}
	return &EngagementLog{file: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one engagement as a JSON line.
func (l *EngagementLog) Append(e SimulatedEngagement) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode engagement: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("write engagement log: %w", err)
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write engagement log: %w", err)
	}
	return nil
}

// Close flushes and closes the log.
func (l *EngagementLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		l.file.Close()
		return fmt.Errorf("flush engagement log: %w", err)
	}
	return l.file.Close()
}

// ReadEngagementLog loads every engagement from a JSONL file. Blank
// lines are skipped; a malformed line fails the whole read.
func ReadEngagementLog(path string) ([]SimulatedEngagement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open engagement log: %w", err)
	}
	defer f.Close()

	var engagements []SimulatedEngagement
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e SimulatedEngagement
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("parse engagement log line %d: %w", line, err)
		}
		engagements = append(engagements, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read engagement log: %w", err)
	}
	return engagements, nil
}
