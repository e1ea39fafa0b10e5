package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log entries bất đồng bộ qua một goroutine riêng.
// Fire không bao giờ block: hàng đợi đầy thì entry bị bỏ, vì mất một
// dòng log rẻ hơn block request handling hay importer.
type AsyncHook struct {
	writers []io.Writer
	queue   chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHook tạo async hook ghi vào danh sách writers.
// queueSize <= 0 dùng mặc định 1000 entries.
func NewAsyncHook(writers []io.Writer, queueSize int) *AsyncHook {
	if queueSize <= 0 {
		queueSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		queue:   make(chan *logrus.Entry, queueSize),
	}

	hook.wg.Add(1)
	go hook.drainQueue()

	return hook
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đưa entry vào hàng đợi, không block.
// Hook đã Close thì ghi thẳng vào writers để không mất log lúc shutdown.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		h.writeEntry(entry)
		return nil
	}

	select {
	case h.queue <- entry:
	default:
		// Hàng đợi đầy: bỏ entry. Không được log cảnh báo ở đây vì sẽ tạo vòng lặp.
	}

	return nil
}

// drainQueue xử lý lần lượt các entry trong hàng đợi.
// Mỗi entry được bọc recover: panic trong formatter hay writer không
// được phép giết goroutine ghi log.
func (h *AsyncHook) drainQueue() {
	defer h.wg.Done()

	for entry := range h.queue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Ghi thẳng stderr, dùng logger ở đây sẽ tạo vòng lặp
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] Logger goroutine panic recovered: %v\n", r)
					debug.PrintStack()
				}
			}()
			h.writeEntry(entry)
		}()
	}
}

// writeEntry format entry và ghi vào tất cả writers.
// Entry bị FilterHook đánh dấu "_filtered" sẽ bị bỏ qua; marker này chỉ
// phục vụ việc lọc nên bị gỡ khỏi entry trước khi format.
func (h *AsyncHook) writeEntry(entry *logrus.Entry) {
	if filtered, ok := entry.Data["_filtered"].(bool); ok && filtered {
		return
	}
	if _, ok := entry.Data["_filtered"]; ok {
		entry = entry.Dup()
		delete(entry.Data, "_filtered")
	}

	var data []byte
	var err error
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return
	}

	// Writer lỗi không chặn các writer còn lại
	for _, writer := range h.writers {
		_, _ = writer.Write(data)
	}
}

// Close đóng hàng đợi và đợi ghi xong các entry còn lại
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.queue)
	h.wg.Wait()
	return nil
}
