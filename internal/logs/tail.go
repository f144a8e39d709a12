package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// TailOptions controls one Tail invocation.
type TailOptions struct {
	// LastLines is how many trailing lines to emit first. Zero starts at
	// the current end of file.
	LastLines int
	// Follow keeps polling for new lines until the context is cancelled.
	Follow bool
	// Poll is the follow-mode polling interval. Defaults to 250ms.
	Poll time.Duration
}

// Tail writes log lines from path to out. A missing file is not an error; in
// follow mode Tail waits for it to appear.
func Tail(ctx context.Context, path string, out io.Writer, opts TailOptions) error {
	if opts.Poll <= 0 {
		opts.Poll = 250 * time.Millisecond
	}

	lines, offset, err := readLast(path, opts.LastLines)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	if !opts.Follow {
		return nil
	}

	ticker := time.NewTicker(opts.Poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		fresh, newOffset, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range fresh {
			fmt.Fprintln(out, line)
		}
		offset = newOffset
	}
}

// readLast returns up to limit trailing lines and the end-of-file offset.
func readLast(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tail []string
	for scanner.Scan() {
		tail = append(tail, scanner.Text())
		if limit > 0 && len(tail) > limit {
			tail = tail[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}
	if limit <= 0 {
		tail = nil
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}
	return tail, offset, nil
}

// readFrom returns the complete lines written after offset and the new
// offset. A truncated or rotated file restarts from the beginning.
func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, offset, fmt.Errorf("read log file: %w", err)
	}

	newOffset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, offset, fmt.Errorf("determine log offset: %w", err)
	}
	return lines, newOffset, nil
}
