package reporting

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"econtent/types"
)

// maxLineBytes caps how large a single store line may be before it is
// treated as malformed
const maxLineBytes = 1024 * 1024

// ReportingError indicates daily KPIs cannot be produced
type ReportingError struct {
	Path string
}

func (e *ReportingError) Error() string {
	return "output store not found at " + e.Path
}

// Service computes daily KPIs by replaying the JSONL output store
type Service struct {
	outputPath string
}

// NewService creates a reporting service reading from outputPath
func NewService(outputPath string) *Service {
	return &Service{outputPath: outputPath}
}

// GetDailyKPIs aggregates all records whose timestamp falls on targetDate.
// Malformed lines and records with unparsable timestamps are skipped.
func (s *Service) GetDailyKPIs(targetDate time.Time) (*types.DailyKPIs, error) {
	f, err := os.Open(s.outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ReportingError{Path: s.outputPath}
		}
		return nil, err
	}
	defer f.Close()

	day := targetDate.Format("2006-01-02")

	totalTasks := 0
	completedTasks := 0
	failedTasks := 0
	var processingTimes []float64
	distribution := make(map[string]int)

	reader := bufio.NewReaderSize(f, maxLineBytes)
	for {
		raw, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isPrefix {
			// Line exceeds the cap: treat it like any other malformed line
			log.Printf("Warning: skipping oversized JSONL line in %s", s.outputPath)
			if err := drainLine(reader); err != nil {
				if err == io.EOF {
					break
				}
				return nil, err
			}
			continue
		}

		line := strings.TrimSpace(string(raw))
		if line == "" {
			continue
		}

		var rec types.OutputRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("Warning: skipping invalid JSONL line in %s", s.outputPath)
			continue
		}

		recDay, ok := recordDate(rec.Timestamp)
		if !ok || recDay != day {
			continue
		}

		totalTasks++
		switch rec.Status {
		case types.StatusCompleted:
			completedTasks++
		case types.StatusFailed:
			failedTasks++
		}

		if rec.ProcessingTimeSeconds != nil {
			processingTimes = append(processingTimes, *rec.ProcessingTimeSeconds)
		}

		if rec.Status == types.StatusCompleted {
			key := strings.TrimSpace(string(rec.Task.PostType))
			if key == "" {
				key = "unknown"
			}
			distribution[key]++
		}
	}

	failureRate := 0.0
	if denom := completedTasks + failedTasks; denom > 0 {
		failureRate = float64(failedTasks) / float64(denom)
	}

	var avgProcessing *float64
	if len(processingTimes) > 0 {
		sum := 0.0
		for _, v := range processingTimes {
			sum += v
		}
		mean := sum / float64(len(processingTimes))
		avgProcessing = &mean
	}

	return &types.DailyKPIs{
		Date:                         day,
		GeneratedPosts:               completedTasks,
		FailureRate:                  failureRate,
		AverageProcessingTimeSeconds: avgProcessing,
		ContentTypeDistribution:      distribution,
		TotalTasks:                   totalTasks,
		FailedTasks:                  failedTasks,
	}, nil
}

// drainLine consumes the remainder of a line that exceeded the read buffer
func drainLine(r *bufio.Reader) error {
	for {
		_, isPrefix, err := r.ReadLine()
		if err != nil {
			return err
		}
		if !isPrefix {
			return nil
		}
	}
}

// recordDate extracts the date component of a record timestamp.
// Accepts RFC 3339 with or without a zone offset.
func recordDate(timestamp string) (string, bool) {
	if timestamp == "" {
		return "", false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, timestamp); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
