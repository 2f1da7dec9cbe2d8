package utils

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// LogInterceptor implements io.Writer and prefixes each line written through it
// with a sequence number and timestamp before forwarding to the target writer.
// Used for the on-disk log file, where the slog handler omits its own time key.
type LogInterceptor struct {
	target         io.Writer
	sequenceNumber *atomic.Uint64
	interceptBuf   *bytes.Buffer
}

// NewLogInterceptor creates a LogInterceptor writing to target.
func NewLogInterceptor(target io.Writer) *LogInterceptor {
	return &LogInterceptor{
		target:         target,
		sequenceNumber: &atomic.Uint64{},
		interceptBuf:   &bytes.Buffer{},
	}
}

func (i *LogInterceptor) writeFormattedLine(line []byte) (int, error) {
	lineNum := i.sequenceNumber.Add(1)
	totalWritten := 0

	lineNumStr := slog.Uint64("line", lineNum).String() + " "
	n, err := io.WriteString(i.target, lineNumStr)
	totalWritten += n
	if err != nil {
		return totalWritten, err
	}

	timeStr := slog.String("time", time.Now().Format(time.RFC3339)).String() + " "
	n, err = io.WriteString(i.target, timeStr)
	totalWritten += n
	if err != nil {
		return totalWritten, err
	}

	n, err = i.target.Write(append(line, '\n'))
	totalWritten += n
	return totalWritten, err
}

// Write implements io.Writer. It buffers input and processes complete lines.
func (i *LogInterceptor) Write(p []byte) (n int, err error) {
	if _, err = i.interceptBuf.Write(p); err != nil {
		return 0, err
	}

	totalWritten := 0
	scanner := bufio.NewScanner(i.interceptBuf)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		n, err = i.writeFormattedLine(scanner.Bytes())
		totalWritten += n
		if err != nil {
			return totalWritten, err
		}
	}

	return totalWritten, nil
}

// Close flushes any remaining buffered data to the target writer.
func (i *LogInterceptor) Close() error {
	remaining := i.interceptBuf.Bytes()
	if len(remaining) > 0 {
		_, err := i.writeFormattedLine(remaining)
		return err
	}
	return nil
}
